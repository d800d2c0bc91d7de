package utils

import (
	"strings"

	ua "github.com/mssola/user_agent"
)

// ClientAgent holds parsed information from a User-Agent string
type ClientAgent struct {
	Kind    string `json:"kind"`    // browser, cli, sdk, bot, unknown
	OS      string `json:"os"`      // Windows 10, Linux, macOS, etc.
	Browser string `json:"browser"` // Chrome, Firefox, curl, etc.
	IsBot   bool   `json:"is_bot"`
	Raw     string `json:"raw"`
}

// cliAgents are User-Agent prefixes of common non-browser API clients
var cliAgents = []string{
	"curl",
	"wget",
	"httpie",
	"postman",
	"insomnia",
	"go-http-client",
	"python-requests",
	"okhttp",
}

// ParseClientAgent classifies the caller from its User-Agent string.
// Plan requests come from dispatch consoles (browsers), scripted
// integrations and CLI tools; the request log records which.
func ParseClientAgent(userAgent string) ClientAgent {
	if userAgent == "" || userAgent == "Unknown" {
		return ClientAgent{
			Kind:    "unknown",
			OS:      "Unknown",
			Browser: "Unknown",
			Raw:     userAgent,
		}
	}

	lowered := strings.ToLower(userAgent)
	for _, agent := range cliAgents {
		if strings.HasPrefix(lowered, agent) {
			return ClientAgent{
				Kind:    "cli",
				OS:      "Unknown",
				Browser: strings.SplitN(userAgent, "/", 2)[0],
				Raw:     userAgent,
			}
		}
	}

	parser := ua.New(userAgent)

	info := ClientAgent{
		IsBot: parser.Bot(),
		OS:    describeOS(parser),
		Raw:   userAgent,
	}

	name, _ := parser.Browser()
	if name == "" {
		name = "Unknown"
	}
	info.Browser = name

	switch {
	case info.IsBot:
		info.Kind = "bot"
	case name != "Unknown":
		info.Kind = "browser"
	default:
		info.Kind = "unknown"
	}

	return info
}

// describeOS extracts operating system name and version
func describeOS(parser *ua.UserAgent) string {
	osInfo := parser.OSInfo()
	if osInfo.Name == "" {
		return "Unknown"
	}
	if osInfo.Version != "" {
		return osInfo.Name + " " + osInfo.Version
	}
	return osInfo.Name
}

// IsBot checks if the user agent represents a bot/crawler
func IsBot(userAgent string) bool {
	parser := ua.New(userAgent)
	return parser.Bot()
}
