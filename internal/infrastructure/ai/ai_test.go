package ai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Inventario-hotel/internal/application/ports"
	"github.com/jhoicas/Inventario-hotel/internal/domain/entity"
)

func snapshot() ports.InventorySnapshot {
	return ports.InventorySnapshot{
		Items: []entity.InventoryItem{
			{Name: "Toallas", Quantity: decimal.NewFromInt(3), MinStockLevel: decimal.NewFromInt(10), Unit: "uds", Category: "Baño"},
		},
		Recent: []entity.Transaction{
			{ItemName: "Toallas", Type: entity.TransactionOutbound, Quantity: decimal.NewFromInt(7),
				Timestamp: time.Date(2024, 4, 2, 9, 30, 0, 0, time.UTC), User: "ana"},
		},
	}
}

func TestBuildAnalysisPrompt(t *testing.T) {
	p := buildAnalysisPrompt(snapshot())
	assert.Contains(t, p, "- Toallas | 3 | 10 | uds | Baño")
	assert.Contains(t, p, "2024-04-02 09:30 | OUTBOUND | Toallas | 7 | ana")

	empty := buildAnalysisPrompt(ports.InventorySnapshot{})
	assert.Contains(t, empty, "Sin movimientos recientes")
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, "## Alertas", stripFences("```markdown\n## Alertas\n```"))
	assert.Equal(t, "texto", stripFences("  texto "))
	assert.Equal(t, "", stripFences("```"))
}

func TestGemini_AnalyzeInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "k", r.URL.Query().Get("key"))
		var req geminiRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Contains(t, req.Contents[0].Parts[0].Text, "Toallas")
		_, _ = io.WriteString(w, `{"candidates":[{"content":{"parts":[{"text":"`+"```md\\n## Alertas críticas\\n- Toallas\\n```"+`"}]}}]}`)
	}))
	defer srv.Close()

	out, err := NewGeminiService("k", "gemini-test").WithBaseURL(srv.URL).AnalyzeInventory(context.Background(), snapshot())
	require.NoError(t, err)
	assert.Equal(t, "## Alertas críticas\n- Toallas", out)
}

func TestGemini_ErrorDeAPI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"error":{"code":403,"message":"API key inválida"}}`)
	}))
	defer srv.Close()

	_, err := NewGeminiService("k", "m").WithBaseURL(srv.URL).AnalyzeInventory(context.Background(), snapshot())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key inválida")
}

func TestAnthropic_AnalyzeInventory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		_, _ = io.WriteString(w, `{"content":[{"type":"text","text":"## Alertas críticas\n"},{"type":"text","text":"- Toallas"}]}`)
	}))
	defer srv.Close()

	out, err := NewAnthropicService("secret", "claude-test").WithBaseURL(srv.URL).AnalyzeInventory(context.Background(), snapshot())
	require.NoError(t, err)
	assert.Equal(t, "## Alertas críticas\n- Toallas", out)
}

func TestSinAPIKey(t *testing.T) {
	_, err := NewAnthropicService("", "m").AnalyzeInventory(context.Background(), snapshot())
	assert.Error(t, err)
	_, err = NewGeminiService("", "m").AnalyzeInventory(context.Background(), snapshot())
	assert.Error(t, err)
}
