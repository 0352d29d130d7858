package serper

import (
	"context"
	"fmt"

	"resty.dev/v3"
	"veriscan.ai/verify-api-gateway/app/utils/httpclients"
	"veriscan.ai/verify-api-gateway/config/environment_variables"
)

var RestyClient *resty.Client

func Init() {
	RestyClient = httpclients.NewClient("SerperClient")
}

type SearchRequest struct {
	Q           string `json:"q"`
	GL          string `json:"gl,omitempty"`
	Num         int    `json:"num,omitempty"`
	Autocorrect bool   `json:"autocorrect"`
}

type OrganicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date,omitempty"`
}

type SearchResponse struct {
	Organic []OrganicResult `json:"organic"`
}

type Client struct {
	baseURL string
}

func NewClient() *Client {
	base := environment_variables.EnvironmentVariables.SERPER_API_URL
	if base == "" {
		base = "https://google.serper.dev"
	}
	return &Client{baseURL: base}
}

// Search runs a web search for q and returns the organic results.
func (c *Client) Search(ctx context.Context, q string, num int) (*SearchResponse, error) {
	var response SearchResponse
	resp, err := RestyClient.R().
		SetContext(ctx).
		SetHeader("X-API-KEY", environment_variables.EnvironmentVariables.SERPER_API_KEY).
		SetHeader("Content-Type", "application/json").
		SetBody(SearchRequest{Q: q, GL: "us", Num: num, Autocorrect: true}).
		SetResult(&response).
		Post(c.baseURL + "/search")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, fmt.Errorf("serper search status %s", resp.Status())
	}
	return &response, nil
}
