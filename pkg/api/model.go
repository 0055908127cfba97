package api

// ProviderInfo is one provider entry of the public catalog listing.
type ProviderInfo struct {
	Provider string      `json:"provider"`
	Models   []ModelInfo `json:"models"`
	// HasCredentials is always true: gateway credentials are managed centrally.
	HasCredentials bool `json:"has_credentials"`
}

type ModelInfo struct {
	Name                   string   `json:"name"`
	ToolCallUnsupported    bool     `json:"tool_call_unsupported"`
	ImageInputUnsupported  bool     `json:"image_input_unsupported"`
	SupportedFileMimeTypes []string `json:"supported_file_mime_types"`
}

// Resolution describes which backend model a selection resolved to.
type Resolution struct {
	ID                     string   `json:"id"`
	Fallback               bool     `json:"fallback"`
	ToolCallUnsupported    bool     `json:"tool_call_unsupported"`
	SupportedFileMimeTypes []string `json:"supported_file_mime_types"`
}
