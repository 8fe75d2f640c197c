package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/scrutor/internal/interfaces"
)

// memoryKV is an in-memory settings store for handler tests
type memoryKV struct {
	values map[string]string
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(ctx context.Context, key string) (string, error) {
	if v, ok := m.values[key]; ok {
		return v, nil
	}
	return "", interfaces.ErrKeyNotFound
}

func (m *memoryKV) GetPair(ctx context.Context, key string) (*interfaces.KeyValuePair, error) {
	v, err := m.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	return &interfaces.KeyValuePair{Key: key, Value: v}, nil
}

func (m *memoryKV) Set(ctx context.Context, key, value, description string) error {
	m.values[key] = value
	return nil
}

func (m *memoryKV) Delete(ctx context.Context, key string) error {
	if _, ok := m.values[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(m.values, key)
	return nil
}

func (m *memoryKV) List(ctx context.Context) ([]interfaces.KeyValuePair, error) {
	var pairs []interfaces.KeyValuePair
	for k, v := range m.values {
		pairs = append(pairs, interfaces.KeyValuePair{Key: k, Value: v})
	}
	return pairs, nil
}

func TestListKVHandler_MasksValues(t *testing.T) {
	kv := newMemoryKV()
	kv.values["gemini_api_key"] = "sk-1234567890abcdef"
	handler := NewKVHandler(kv, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/kv", nil)
	rec := httptest.NewRecorder()

	handler.ListKVHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "sk-1...cdef", entries[0]["value"])
	assert.NotContains(t, rec.Body.String(), "sk-1234567890abcdef")
}

func TestSetKVHandler(t *testing.T) {
	kv := newMemoryKV()
	handler := NewKVHandler(kv, arbor.NewLogger())

	body := bytes.NewBufferString(`{"key":"gemini_api_key","value":"sk-test","description":"Gemini key"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/kv", body)
	rec := httptest.NewRecorder()

	handler.SetKVHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sk-test", kv.values["gemini_api_key"])
}

func TestSetKVHandler_MissingFields(t *testing.T) {
	handler := NewKVHandler(newMemoryKV(), arbor.NewLogger())

	tests := []struct {
		name string
		body string
	}{
		{name: "missing key", body: `{"value":"v"}`},
		{name: "missing value", body: `{"key":"k"}`},
		{name: "invalid json", body: `{`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/kv", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()

			handler.SetKVHandler(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestDeleteKVHandler(t *testing.T) {
	kv := newMemoryKV()
	kv.values["old_key"] = "value"
	handler := NewKVHandler(kv, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/kv/old_key", nil)
	rec := httptest.NewRecorder()

	handler.DeleteKVHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, kv.values, "old_key")
}

func TestDeleteKVHandler_NotFound(t *testing.T) {
	handler := NewKVHandler(newMemoryKV(), arbor.NewLogger())

	req := httptest.NewRequest(http.MethodDelete, "/api/kv/missing", nil)
	rec := httptest.NewRecorder()

	handler.DeleteKVHandler(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "••••••••", maskValue("short"))
	assert.Equal(t, "sk-a...wxyz", maskValue("sk-abcdefgh-wxyz"))
}
