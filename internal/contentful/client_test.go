package contentful

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"sitedata/internal/fetcher"
	"sitedata/internal/ratelimit"
)

const testQuery = `query Greeting {
  greetingCollection { items { text } }
}`

type greetings struct {
	GreetingCollection struct {
		Items []struct {
			Text string `json:"text"`
		} `json:"items"`
	} `json:"greetingCollection"`
}

type strictGreetings struct {
	greetings
}

func (g strictGreetings) Validate() error {
	if len(g.GreetingCollection.Items) == 0 {
		return errors.New("greetingCollection is empty")
	}
	return nil
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *observer.ObservedLogs) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	core, logs := observer.New(zapcore.DebugLevel)
	client := NewClient(server.URL, "space123", "cda_token",
		WithLogger(zap.New(core)),
		WithLimiter(ratelimit.Unlimited()))
	return client, logs
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(body))
}

func errorEntries(logs *observer.ObservedLogs) int {
	return logs.FilterLevelExact(zapcore.ErrorLevel).Len()
}

func TestQuery_Success(t *testing.T) {
	client, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/space123", r.URL.Path)
		assert.Equal(t, "Bearer cda_token", r.Header.Get("Authorization"))

		var req struct {
			Query     string         `json:"query"`
			Variables map[string]any `json:"variables"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, testQuery, req.Query)
		assert.Equal(t, map[string]any{"limit": float64(2)}, req.Variables)

		writeJSON(w, http.StatusOK, `{"data":{"greetingCollection":{"items":[{"text":"hi"},{"text":"hey"}]}}}`)
	})

	res := Query[greetings](context.Background(), client, testQuery, map[string]any{"limit": 2})

	require.True(t, res.IsOk())
	items := res.Unwrap().GreetingCollection.Items
	require.Len(t, items, 2)
	assert.Equal(t, "hi", items[0].Text)
	assert.Equal(t, "hey", items[1].Text)
	assert.Zero(t, errorEntries(logs))
}

func TestQuery_OmitsEmptyVariables(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasVars := raw["variables"]
		assert.False(t, hasVars)
		writeJSON(w, http.StatusOK, `{"data":{"greetingCollection":{"items":[]}}}`)
	})

	res := Query[greetings](context.Background(), client, testQuery, nil)
	assert.True(t, res.IsOk())
}

func TestQuery_Failures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantType fetcher.ErrorType
	}{
		{"errors with 200", http.StatusOK, `{"data":{"greetingCollection":null},"errors":[{"message":"Unknown field"}]}`, fetcher.ErrorTypeCMSQuery},
		{"errors with 400", http.StatusBadRequest, `{"errors":[{"message":"Query cannot be executed","locations":[{"line":1,"column":1}]}]}`, fetcher.ErrorTypeCMSQuery},
		{"server error", http.StatusInternalServerError, `oops`, fetcher.ErrorTypeNetwork},
		{"unauthorized without errors", http.StatusUnauthorized, `{"message":"token invalid"}`, fetcher.ErrorTypeNetwork},
		{"not json", http.StatusOK, `<html></html>`, fetcher.ErrorTypeParse},
		{"missing data", http.StatusOK, `{}`, fetcher.ErrorTypeParse},
		{"null data", http.StatusOK, `{"data":null}`, fetcher.ErrorTypeParse},
		{"shape mismatch", http.StatusOK, `{"data":{"greetingCollection":{"items":"nope"}}}`, fetcher.ErrorTypeParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, tt.status, tt.body)
			})

			res := Query[greetings](context.Background(), client, testQuery, nil)

			require.True(t, res.IsErr())
			assert.True(t, fetcher.IsType(res.UnwrapErr(), tt.wantType), "error = %v, want type %s", res.UnwrapErr(), tt.wantType)
			assert.Equal(t, 1, errorEntries(logs), "each failure is logged exactly once")
		})
	}
}

func TestQuery_CMSErrorMessages(t *testing.T) {
	client, logs := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"errors":[{"message":"first"},{"message":"second"}]}`)
	})

	res := Query[greetings](context.Background(), client, testQuery, nil)

	require.True(t, res.IsErr())
	var fe *fetcher.FetchError
	require.ErrorAs(t, res.UnwrapErr(), &fe)
	assert.Equal(t, "query returned errors: first; second", fe.Message)

	entry := logs.All()[0]
	assert.Equal(t, "contentful query failed", entry.Message)
	assert.Equal(t, "Greeting", entry.ContextMap()["operation"])
}

func TestQuery_Validator(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"data":{"greetingCollection":{"items":[]}}}`)
	})

	res := Query[strictGreetings](context.Background(), client, testQuery, nil)

	require.True(t, res.IsErr())
	assert.True(t, fetcher.IsType(res.UnwrapErr(), fetcher.ErrorTypeParse))
	assert.ErrorContains(t, res.UnwrapErr(), "greetingCollection is empty")
}

func TestQuery_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	core, logs := observer.New(zapcore.DebugLevel)
	client := NewClient(url, "space123", "token", WithLogger(zap.New(core)))

	res := Query[greetings](context.Background(), client, testQuery, nil)

	require.True(t, res.IsErr())
	assert.True(t, fetcher.IsType(res.UnwrapErr(), fetcher.ErrorTypeNetwork))
	assert.Equal(t, 1, errorEntries(logs))
}

func TestQuery_ContextCancelled(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := Query[greetings](ctx, client, testQuery, nil)

	require.True(t, res.IsErr())
	assert.True(t, fetcher.IsType(res.UnwrapErr(), fetcher.ErrorTypeNetwork))
}

func TestOperationName(t *testing.T) {
	assert.Equal(t, "Greeting", operationName(testQuery))
	assert.Equal(t, "anonymous", operationName(`{ greetingCollection { total } }`))
}
