package models

type ResolveShareRequest struct {
	// AssetID pins resolution to a specific asset. When omitted the most
	// recent video in the project's media folder is used.
	AssetID string `json:"asset_id,omitempty"`
	// CommentsEnabled is the comment policy for the returned link.
	// Defaults to true when omitted.
	CommentsEnabled *bool `json:"comments_enabled,omitempty"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
