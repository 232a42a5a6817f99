package render

import (
	"fmt"

	"github.com/go-resty/resty/v2"
)

// RenderClientInterface defines the contract for the external graph rendering
// service.
type RenderClientInterface interface {
	RenderSVG(dot string) ([]byte, error)
}

// RenderConfig represents the rendering service configuration needed for
// initialization. Username and Password are optional.
type RenderConfig struct {
	APIURL   string
	Username string
	Password string
}

// RenderClient renders DOT source to SVG through a Graphviz rendering HTTP
// service.
type RenderClient struct {
	client *resty.Client
}

// NewRenderClient initializes a render client with the provided RenderConfig.
func NewRenderClient(config RenderConfig) *RenderClient {
	client := resty.New()
	client.SetBaseURL(config.APIURL)
	if config.Username != "" {
		client.SetBasicAuth(config.Username, config.Password)
	}
	client.SetDisableWarn(true)

	return &RenderClient{
		client: client,
	}
}

// RenderSVG posts DOT source to the rendering service and returns the SVG
// bytes.
func (c *RenderClient) RenderSVG(dot string) ([]byte, error) {
	resp, err := c.client.R().
		SetHeader("Content-Type", "text/vnd.graphviz").
		SetBody(dot).
		Post("/svg")
	if err != nil {
		return nil, fmt.Errorf("failed to render graph: %v", err)
	}

	if resp.StatusCode() != 200 {
		return nil, fmt.Errorf("failed to render graph, status code: %d, response: %s", resp.StatusCode(), resp.String())
	}

	return resp.Body(), nil
}
