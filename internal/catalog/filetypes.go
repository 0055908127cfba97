package catalog

// File part MIME types accepted by each upstream vendor.
var (
	DefaultFileMimeTypes = []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	}

	OpenAIFileMimeTypes = []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
		"application/pdf",
	}

	AnthropicFileMimeTypes = []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
		"application/pdf",
		"text/plain",
	}

	GeminiFileMimeTypes = []string{
		"image/jpeg",
		"image/png",
		"image/webp",
		"image/heic",
		"image/heif",
		"application/pdf",
		"text/plain",
		"text/csv",
		"text/html",
		"text/markdown",
		"audio/mpeg",
		"audio/wav",
		"video/mp4",
	}

	XAIFileMimeTypes = []string{
		"image/jpeg",
		"image/png",
	}
)
