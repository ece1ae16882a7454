package monday_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/worklens-io/worklens/pkg/domain/model"
	"github.com/worklens-io/worklens/pkg/service/monday"
)

const boardResponse = `{
  "data": {
    "boards": [
      {
        "name": "Project Board",
        "groups": [
          {
            "id": "g1",
            "title": "A",
            "items_page": {
              "items": [
                {
                  "id": "i1",
                  "name": "Task1",
                  "subitems": [
                    {
                      "id": "s1",
                      "name": "Alice",
                      "column_values": [
                        {"id": "c1", "text": "100", "column": {"title": "3월"}},
                        {"id": "c2", "text": "done", "column": {"title": "상태"}}
                      ]
                    }
                  ]
                }
              ]
            }
          }
        ]
      }
    ]
  }
}`

func TestFetchBoard(t *testing.T) {
	var gotAuth string
	var gotQuery string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")

		var body map[string]string
		gt.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotQuery = body["query"]

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(boardResponse))
	}))
	defer srv.Close()

	client := monday.New("test-key", "12345", monday.WithAPIURL(srv.URL))

	board, err := client.FetchBoard(context.Background())
	gt.NoError(t, err)

	gt.Equal(t, gotAuth, "test-key")
	gt.True(t, strings.Contains(gotQuery, "boards(ids: 12345)"))
	gt.True(t, strings.Contains(gotQuery, "items_page(limit: 100)"))

	gt.Equal(t, board.Name, "Project Board")
	gt.Equal(t, len(board.Groups), 1)
	gt.Equal(t, board.Groups[0].Title, "A")
	gt.Equal(t, len(board.Groups[0].Items), 1)

	sub := board.Groups[0].Items[0].Subitems[0]
	gt.Equal(t, sub.Name, "Alice")
	gt.Equal(t, sub.ColumnValues, []model.ColumnValue{
		{Title: "3월", Text: "100"},
		{Title: "상태", Text: "done"},
	})
}

func TestFetchBoardGraphQLError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"errors": [{"message": "Board not accessible"}]}`))
	}))
	defer srv.Close()

	client := monday.New("test-key", "12345", monday.WithAPIURL(srv.URL))

	_, err := client.FetchBoard(context.Background())
	gt.Error(t, err)
	gt.True(t, strings.Contains(err.Error(), "Board not accessible"))
}

func TestFetchBoardHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := monday.New("test-key", "12345", monday.WithAPIURL(srv.URL))

	_, err := client.FetchBoard(context.Background())
	gt.Error(t, err)
}

func TestFetchBoardEmptyBoards(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"boards": []}}`))
	}))
	defer srv.Close()

	client := monday.New("test-key", "99999", monday.WithAPIURL(srv.URL))

	_, err := client.FetchBoard(context.Background())
	gt.Error(t, err)
}

func TestFetchBoardMissingKey(t *testing.T) {
	client := monday.New("", "12345")
	_, err := client.FetchBoard(context.Background())
	gt.Error(t, err)
}
