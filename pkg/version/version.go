package version

// Version is the current version of the chat safety server
const Version = "0.1.3"

// UserAgent returns the User-Agent string for outbound HTTP requests
func UserAgent() string {
	return "chatsafety/" + Version
}

// ServerHeader returns the Server header value for HTTP responses
func ServerHeader() string {
	return "chatsafety/" + Version
}
