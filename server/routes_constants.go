package server

// Route path constants
const (
	RouteIndex = "/{$}"

	// Accounts
	RouteUsers             = "/users"
	RouteAuthenticate      = "/authenticate"
	RouteAuthenticateCheck = "/authenticate/check"

	// Campaigns
	RouteSystems   = "/systems"
	RouteCampaigns = "/campaigns"
)

// Response messages sent to clients.
const (
	MsgServerRunning      = "server is running"
	MsgSuccess            = "success"
	MsgNoToken            = "No token provided."
	MsgBadToken           = "Failed to authenticate token."
	MsgUserNotFound       = "user not found"
	MsgIncorrectPassword  = "incorrect password"
	MsgDuplicateCampaign  = "duplicate campaign name for user"
	MsgCampaignAdded      = "campaign added successfully"
	MsgNoSystems          = "There appear to be no supported systems, something is wrong."
	MsgInconsistent       = "CRITICAL ERROR: DATABASE INCONSISTENT"
	MsgCampaignIncomplete = "could not finish creating campaign"
	MsgInternalError      = "internal error"
	MsgRateLimited        = "too many requests, slow down"
	MsgInvalidSystemID    = "SystemId must be a number"
	MsgMalformedBody      = "malformed request body"
)
