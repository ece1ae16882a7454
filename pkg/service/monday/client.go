package monday

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/worklens-io/worklens/pkg/domain/interfaces"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/domain/types"
)

const (
	// DefaultAPIURL is the Monday.com GraphQL endpoint
	DefaultAPIURL = "https://api.monday.com/v2"

	// itemPageLimit caps the items requested per group
	itemPageLimit = 100

	defaultHTTPTimeout = 30 * time.Second
)

// boardQuery requests the full nested board structure in one call
const boardQuery = `
query {
  boards(ids: %s) {
    name
    groups {
      id
      title
      items_page(limit: %d) {
        items {
          id
          name
          subitems {
            id
            name
            column_values {
              id
              text
              column {
                title
              }
            }
          }
        }
      }
    }
  }
}`

// Client fetches one board from the Monday.com GraphQL API. A failed call
// is terminal for that load attempt; there is no retry or backoff.
type Client struct {
	apiURL  string
	apiKey  string
	boardID types.BoardID
	http    *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithAPIURL overrides the GraphQL endpoint (used by tests)
func WithAPIURL(apiURL string) Option {
	return func(c *Client) {
		c.apiURL = apiURL
	}
}

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// New creates a Monday board client
func New(apiKey string, boardID types.BoardID, opts ...Option) *Client {
	c := &Client{
		apiURL:  DefaultAPIURL,
		apiKey:  apiKey,
		boardID: boardID,
		http:    &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BoardID returns the board this client is bound to
func (c *Client) BoardID() types.BoardID {
	return c.boardID
}

// Wire types mirroring the GraphQL response shape
type queryResponse struct {
	Data *struct {
		Boards []wireBoard `json:"boards"`
	} `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type wireBoard struct {
	Name   string      `json:"name"`
	Groups []wireGroup `json:"groups"`
}

type wireGroup struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	ItemsPage struct {
		Items []wireItem `json:"items"`
	} `json:"items_page"`
}

type wireItem struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Subitems []wireSubitem `json:"subitems"`
}

type wireSubitem struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	ColumnValues []wireColumnValue `json:"column_values"`
}

type wireColumnValue struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Column struct {
		Title string `json:"title"`
	} `json:"column"`
}

// FetchBoard issues the single board query and returns the first matching
// board, flattening the paged wire shape into the domain model
func (c *Client) FetchBoard(ctx context.Context) (*model.Board, error) {
	if c.apiKey == "" {
		return nil, goerr.New("monday API key is not configured")
	}
	if c.boardID == "" {
		return nil, goerr.New("monday board ID is not configured")
	}

	query := fmt.Sprintf(boardQuery, c.boardID, itemPageLimit)
	body, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode board query")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create board request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, goerr.Wrap(err, "board request failed", goerr.V("boardID", c.boardID))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read board response")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, goerr.New("board API returned non-OK status",
			goerr.V("status", resp.StatusCode),
			goerr.V("body", truncate(string(raw), 512)),
		)
	}

	var result queryResponse
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, goerr.Wrap(err, "failed to decode board response")
	}

	// GraphQL errors arrive with a 200 status; surface the first message
	if len(result.Errors) > 0 {
		return nil, goerr.New(result.Errors[0].Message, goerr.V("boardID", c.boardID))
	}
	if result.Data == nil || len(result.Data.Boards) == 0 {
		return nil, goerr.New("board not found", goerr.V("boardID", c.boardID))
	}

	return flattenBoard(result.Data.Boards[0]), nil
}

func flattenBoard(wb wireBoard) *model.Board {
	board := &model.Board{
		Name:   wb.Name,
		Groups: make([]model.Group, 0, len(wb.Groups)),
	}
	for _, wg := range wb.Groups {
		group := model.Group{
			ID:    wg.ID,
			Title: wg.Title,
			Items: make([]model.Item, 0, len(wg.ItemsPage.Items)),
		}
		for _, wi := range wg.ItemsPage.Items {
			item := model.Item{
				ID:       wi.ID,
				Name:     wi.Name,
				Subitems: make([]model.Subitem, 0, len(wi.Subitems)),
			}
			for _, ws := range wi.Subitems {
				subitem := model.Subitem{
					ID:           ws.ID,
					Name:         ws.Name,
					ColumnValues: make([]model.ColumnValue, 0, len(ws.ColumnValues)),
				}
				for _, wc := range ws.ColumnValues {
					subitem.ColumnValues = append(subitem.ColumnValues, model.ColumnValue{
						Title: wc.Column.Title,
						Text:  wc.Text,
					})
				}
				item.Subitems = append(item.Subitems, subitem)
			}
			group.Items = append(group.Items, item)
		}
		board.Groups = append(board.Groups, group)
	}
	return board
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

var _ interfaces.BoardFetcher = (*Client)(nil) // Compile-time interface check
