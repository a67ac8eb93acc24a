package server

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// Response is the envelope of every reply. Failures are reported in Success,
// the HTTP status is always 200.
type Response struct {
	Success bool `json:"success"`
	Message any  `json:"message"`
}

func writeJSON(w http.ResponseWriter, resp Response) error {
	return json.NewEncoder(w).Encode(resp)
}

func writeResponse(w http.ResponseWriter, success bool, message any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = writeJSON(w, Response{Success: success, Message: message})
}

func writeSuccess(w http.ResponseWriter, message any) {
	writeResponse(w, true, message)
}

func writeFailure(w http.ResponseWriter, message string) {
	writeResponse(w, false, message)
}

// storeMessage is the text sent for a store failure: the store's own message
// when store errors are exposed, fallback otherwise.
func (s *Server) storeMessage(err error, fallback string) string {
	if s.config.GetExposeStoreErrors() {
		return err.Error()
	}
	return fallback
}

var (
	errMalformedBody = errors.New(MsgMalformedBody)
	errNotInteger    = errors.New("not an integer")
)

// FlexInt64 accepts a JSON number or a numeric string. An empty string or
// null leaves it unset.
type FlexInt64 struct {
	Value int64
	Set   bool
}

func (f *FlexInt64) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" {
		return nil
	}
	if unquoted, err := strconv.Unquote(raw); err == nil {
		raw = strings.TrimSpace(unquoted)
	}
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return errors.Wrapf(errNotInteger, "%q", raw)
	}
	f.Value, f.Set = v, true
	return nil
}

// credentialsRequest is the body of the user and authenticate routes.
type credentialsRequest struct {
	Username string `json:"Username"`
	Passwd   string `json:"Passwd"`
}

// campaignRequest is the body of the campaign route.
type campaignRequest struct {
	SystemId FlexInt64 `json:"SystemId"`
	Passwd   string    `json:"Passwd"`
	Name     string    `json:"Name"`
}

// bind decodes the request body into dst. JSON bodies are decoded directly;
// anything else is parsed as a url-encoded form whose keys match dst's json
// tags.
func bind(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return wrapBindErr(err)
		}
		return nil
	}

	if err := r.ParseForm(); err != nil {
		return wrapBindErr(err)
	}
	values := make(map[string]string, len(r.PostForm))
	for key := range r.PostForm {
		values[key] = r.PostForm.Get(key)
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return wrapBindErr(err)
	}
	if err := json.Unmarshal(encoded, dst); err != nil {
		return wrapBindErr(err)
	}
	return nil
}

func wrapBindErr(err error) error {
	if errors.Is(err, errNotInteger) {
		return err
	}
	return errors.Wrap(errMalformedBody, err.Error())
}
