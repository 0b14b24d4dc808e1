package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeepLClient_Translate_SendsFormAndParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/translate", r.URL.Path)
		require.Equal(t, "DeepL-Auth-Key test-key", r.Header.Get("Authorization"))
		require.NoError(t, r.ParseForm())
		require.Equal(t, []string{"Hello", "World"}, r.PostForm["text"])
		require.Equal(t, "FR", r.PostForm.Get("target_lang"))
		require.Equal(t, "g-1", r.PostForm.Get("glossary_id"))
		_, _ = w.Write([]byte(`{"translations":[{"text":"Bonjour"},{"text":"Monde"}]}`))
	}))
	defer server.Close()

	client := NewDeepLClient("test-key")
	client.baseURL = server.URL

	out, err := client.Translate(context.Background(), []string{"Hello", "World"}, "fr", "g-1")
	require.NoError(t, err)
	require.Equal(t, []string{"Bonjour", "Monde"}, out)
}

func TestDeepLClient_Translate_NonOKStatusIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"message":"quota exceeded"}`, 456)
	}))
	defer server.Close()

	client := NewDeepLClient("test-key")
	client.baseURL = server.URL

	_, err := client.Translate(context.Background(), []string{"x"}, "fr", "")
	require.Error(t, err)
	require.Contains(t, err.Error(), "456")
}

func TestDeepLClient_Translate_CountMismatchIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"translations":[]}`))
	}))
	defer server.Close()

	client := NewDeepLClient("test-key")
	client.baseURL = server.URL

	_, err := client.Translate(context.Background(), []string{"x"}, "fr", "")
	require.Error(t, err)
}

func TestDeepLClient_CreateGlossary_SendsTSVEntries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v2/glossaries", r.URL.Path)
		require.NoError(t, r.ParseForm())
		require.Equal(t, "tsv", r.PostForm.Get("entries_format"))
		require.Equal(t, "rope jam\tbourrage de corde\n", r.PostForm.Get("entries"))
		_, _ = w.Write([]byte(`{"glossary_id":"g-9","name":"n","source_lang":"en","target_lang":"fr"}`))
	}))
	defer server.Close()

	client := NewDeepLClient("test-key")
	client.baseURL = server.URL

	id, err := client.CreateGlossary(context.Background(), "n", "en", "fr", map[string]string{"rope jam": "bourrage de corde"})
	require.NoError(t, err)
	require.Equal(t, "g-9", id)
}

func TestNewDeepLClient_FreeKeyUsesFreeHost(t *testing.T) {
	require.Equal(t, "https://api-free.deepl.com", NewDeepLClient("abc:fx").baseURL)
	require.Equal(t, "https://api.deepl.com", NewDeepLClient("abc").baseURL)
}
