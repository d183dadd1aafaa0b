package peddy

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-pet-catalog/internal/domains/catalog/ports"
	"github.com/Apurer/go-gin-pet-catalog/internal/platform/httpclient"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	hc, err := httpclient.New(srv.URL, time.Second)
	require.NoError(t, err)
	hc.MaxRetries = 0
	c, err := NewClient(hc)
	require.NoError(t, err)
	return c
}

func respond(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

func TestListCategories(t *testing.T) {
	c := newTestClient(t, respond(`{"status":true,"categories":[
		{"id":1,"category":"Cat","category_icon":"https://i.example/cat.png"},
		{"id":2,"category":"Dog","category_icon":"https://i.example/dog.png"}]}`))

	categories, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	require.Equal(t, []domain.Category{
		{Name: "Cat", IconURL: "https://i.example/cat.png"},
		{Name: "Dog", IconURL: "https://i.example/dog.png"},
	}, categories)
}

func TestListPets_DecodesNumericIDAndMixedPrices(t *testing.T) {
	c := newTestClient(t, respond(`{"pets":[
		{"petId":1,"pet_name":"Sunny","breed":"Golden Retriever","price":1200,"image":"a.png","category":"Dog"},
		{"petId":"2","pet_name":"Mittens","breed":null,"price":"negotiable","image":"b.png","category":"Cat"},
		{"petId":3,"pet_name":"Rex","image":"c.png"}]}`))

	pets, err := c.ListPets(context.Background())
	require.NoError(t, err)
	require.Len(t, pets, 3)

	require.Equal(t, "1", pets[0].ID)
	require.Equal(t, "1200", domain.PriceText(pets[0].Price))
	require.Equal(t, "Golden Retriever", domain.Text(pets[0].Breed))

	require.Equal(t, "2", pets[1].ID)
	require.Nil(t, pets[1].Breed)
	require.Equal(t, "negotiable", domain.PriceText(pets[1].Price))
	require.True(t, pets[1].SortKey().IsZero())

	require.Nil(t, pets[2].Price)
	require.Equal(t, domain.Placeholder, domain.PriceText(pets[2].Price))
}

func TestListPetsByCategory_EscapesPathSegment(t *testing.T) {
	var gotPath string
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		_, _ = w.Write([]byte(`{"status":true,"message":"No pets","data":[]}`))
	}))

	pets, err := c.ListPetsByCategory(context.Background(), "Guinea Pig")
	require.NoError(t, err)
	require.Empty(t, pets)
	require.Equal(t, "/category/Guinea%20Pig", gotPath)
}

func TestListPetsByCategory_RejectsEmptyName(t *testing.T) {
	c := newTestClient(t, respond(`{}`))
	_, err := c.ListPetsByCategory(context.Background(), "  ")
	require.ErrorIs(t, err, domain.ErrEmptyCategoryName)
}

func TestGetPet(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/pet/7", r.URL.Path)
		_, _ = w.Write([]byte(`{"petData":{"petId":7,"pet_name":"Milo","pet_details":"Friendly","image":"m.png"}}`))
	}))

	pet, err := c.GetPet(context.Background(), "7")
	require.NoError(t, err)
	require.Equal(t, "Milo", pet.Name)
	require.Equal(t, "Friendly", domain.Text(pet.Details))
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		want    error
	}{
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			want:    ports.ErrNetwork,
		},
		{
			name:    "not found",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusNotFound) },
			want:    ports.ErrNotFound,
		},
		{name: "malformed json", handler: respond(`{"petData":`), want: ports.ErrDecode},
		{name: "null pet", handler: respond(`{"petData":null}`), want: ports.ErrNotFound},
		{name: "pet without id", handler: respond(`{"petData":{"pet_name":"Ghost"}}`), want: ports.ErrDecode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler)
			_, err := c.GetPet(context.Background(), "1")
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestListPets_MissingEnvelopeIsDecodeError(t *testing.T) {
	c := newTestClient(t, respond(`{"status":true}`))
	_, err := c.ListPets(context.Background())
	require.ErrorIs(t, err, ports.ErrDecode)
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(nil)
	require.Error(t, err)

	hc, err := httpclient.New("", 0)
	require.NoError(t, err)
	_, err = NewClient(hc)
	require.Error(t, err)
}
