package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/models"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken("secret"))
	_, err := c.ListProducts(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, "Bearer secret", gotAuth)
}

func TestClientDecodesErrorEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		fmt.Fprint(w, `{"message":"A product with this name already exists"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken(""))
	_, err := c.CreateProduct(context.Background(), ProductPayload{Name: "Summer Dress"})

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "A product with this name already exists", apiErr.Message)
}

func TestClientFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken(""))
	err := c.DeleteProduct(context.Background(), "prod-1")

	var apiErr *APIError
	assert.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.Status)
	assert.Equal(t, http.StatusText(http.StatusBadGateway), apiErr.Message)
}

func TestListVariantsScopesByProduct(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "prod-1", r.URL.Query().Get("productId"))
		json.NewEncoder(w).Encode([]models.Variant{{ID: "v1", ProductID: "prod-1"}})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, StaticToken(""))
	variants, err := c.ListVariants(context.Background(), "prod-1")
	assert.NoError(t, err)
	assert.Len(t, variants, 1)
}

func TestVariantPayloadOmitsUnsetFields(t *testing.T) {
	data, err := json.Marshal(VariantPayload{Image: "https://cdn/v.jpg"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"image":"https://cdn/v.jpg"}`, string(data))
}
