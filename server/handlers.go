package server

import (
	"net/http"

	"github.com/jrsteele09/dmtool-server/campaigns"
	apperrors "github.com/jrsteele09/dmtool-server/internal/errors"
	"github.com/pkg/errors"
)

// IndexHandler reports that the server is up.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, MsgServerRunning)
	}
}

// RegisterHandler creates a user account.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := bind(w, r, &req); err != nil {
			writeFailure(w, MsgMalformedBody)
			return
		}

		user, err := s.services.Accounts.Register(r.Context(), req.Username, req.Passwd)
		if err != nil {
			s.logger.Warn().Err(err).Str("user", req.Username).Msg("failed to add user")
			writeFailure(w, s.accountErrorMessage(err))
			return
		}

		s.logger.Info().Str("user", user.Username).Str("user_id", user.ID).Msg("user added")
		writeSuccess(w, MsgSuccess)
	}
}

// AuthenticateHandler exchanges a username and password for a session token.
func (s *Server) AuthenticateHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req credentialsRequest
		if err := bind(w, r, &req); err != nil {
			writeFailure(w, MsgMalformedBody)
			return
		}

		tok, err := s.services.Accounts.Authenticate(r.Context(), req.Username, req.Passwd)
		if err != nil {
			s.logger.Info().Err(err).Str("user", req.Username).Msg("authentication failed")
			writeFailure(w, s.accountErrorMessage(err))
			return
		}

		s.logger.Info().Str("user", tok.Identity.DisplayName).Time("expires_at", tok.ExpiresAt).Msg("token issued")
		writeSuccess(w, tok.Value)
	}
}

// CheckTokenHandler returns the display name of the token's identity.
func (s *Server) CheckTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeFailure(w, MsgBadToken)
			return
		}
		writeSuccess(w, identity.DisplayName)
	}
}

// SystemsHandler lists the supported game systems.
func (s *Server) SystemsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := s.services.Systems.List(r.Context())
		if err != nil {
			if errors.Is(err, apperrors.ErrNoSystems) {
				s.logger.Error().Err(err).Msg("systems table is empty")
				writeFailure(w, MsgNoSystems)
				return
			}
			s.logger.Error().Err(err).Msg("failed to list systems")
			writeFailure(w, s.storeMessage(errors.Cause(err), MsgInternalError))
			return
		}
		writeSuccess(w, list)
	}
}

// CreateCampaignHandler creates a campaign owned by the token's identity.
func (s *Server) CreateCampaignHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		if !ok {
			writeFailure(w, MsgBadToken)
			return
		}

		var req campaignRequest
		if err := bind(w, r, &req); err != nil {
			if errors.Is(err, errNotInteger) {
				writeFailure(w, MsgInvalidSystemID)
				return
			}
			writeFailure(w, MsgMalformedBody)
			return
		}
		if !req.SystemId.Set {
			writeFailure(w, MsgInvalidSystemID)
			return
		}

		s.logger.Info().Str("user", identity.DisplayName).Str("campaign", req.Name).Msg("creating campaign")

		_, err := s.services.Campaigns.CreateCampaign(r.Context(), identity, req.SystemId.Value, req.Name, req.Passwd)
		if err != nil {
			writeFailure(w, s.campaignErrorMessage(err))
			return
		}
		writeSuccess(w, MsgCampaignAdded)
	}
}

func (s *Server) accountErrorMessage(err error) string {
	switch {
	case errors.Is(err, apperrors.ErrUserNotFound):
		return MsgUserNotFound
	case errors.Is(err, apperrors.ErrInvalidCredentials):
		return MsgIncorrectPassword
	case errors.Is(err, apperrors.ErrUserExists), errors.Is(err, apperrors.ErrInvalidRequest):
		return err.Error()
	default:
		return s.storeMessage(errors.Cause(err), MsgInternalError)
	}
}

func (s *Server) campaignErrorMessage(err error) string {
	var (
		storeErr    *campaigns.StoreError
		recoverable *campaigns.RecoverableError
	)
	switch campaigns.Classify(err) {
	case campaigns.OutcomeInconsistent:
		return MsgInconsistent
	case campaigns.OutcomeRejected:
		if errors.Is(err, campaigns.ErrDuplicateCampaign) {
			return MsgDuplicateCampaign
		}
		return err.Error()
	}

	switch {
	case errors.As(err, &recoverable):
		return s.storeMessage(recoverable, MsgCampaignIncomplete)
	case errors.As(err, &storeErr):
		return s.storeMessage(storeErr, MsgInternalError)
	default:
		return MsgInternalError
	}
}
