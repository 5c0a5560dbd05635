package services

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// pincodeServiceWith builds a service whose providers all point at the
// given handlers, in order
func pincodeServiceWith(servers ...*httptest.Server) *PincodeService {
	svc := NewPincodeService()
	providers := make([]pincodeProvider, 0, len(servers))
	for i, server := range servers {
		providers = append(providers, pincodeProvider{
			name:  svc.providers[i].name,
			url:   server.URL + "/%s",
			parse: svc.providers[i].parse,
		})
	}
	svc.providers = providers
	return svc
}

func TestPincodeLookupInvalidFormat(t *testing.T) {
	svc := NewPincodeService()

	tests := []struct {
		name    string
		pincode string
	}{
		{"too short", "1100"},
		{"too long", "1100011"},
		{"letters", "11000a"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := svc.Lookup(tt.pincode)
			assert.Nil(t, info)
			assert.ErrorIs(t, err, ErrInvalidPincode)
		})
	}
}

func TestPincodeLookupFirstProviderWins(t *testing.T) {
	primary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/110001", r.URL.Path)
		w.Write([]byte(`[{"Status":"Success","PostOffice":[{"Name":"Connaught Place","District":"New Delhi","State":"Delhi"}]}]`))
	}))
	defer primary.Close()

	secondaryCalled := false
	secondary := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		secondaryCalled = true
	}))
	defer secondary.Close()

	svc := pincodeServiceWith(primary, secondary)

	info, err := svc.Lookup("110001")
	assert.NoError(t, err)
	assert.Equal(t, &PincodeInfo{City: "New Delhi", State: "Delhi", Area: "Connaught Place"}, info)
	assert.False(t, secondaryCalled, "Later providers must not be queried after a hit")
}

func TestPincodeLookupFallsThroughProviders(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer broken.Close()

	empty := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":"Error","PostOffice":null}`))
	}))
	defer empty.Close()

	zippo := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"post code":"110001","places":[{"place name":"New Delhi","state":"Delhi"}]}`))
	}))
	defer zippo.Close()

	svc := pincodeServiceWith(broken, empty, zippo)

	info, err := svc.Lookup("110001")
	assert.NoError(t, err)
	assert.Equal(t, "New Delhi", info.City)
	assert.Equal(t, "Delhi", info.State)
	assert.Equal(t, "New Delhi", info.Area, "Zippopotam has no area field beyond the place name")
}

func TestPincodeLookupLegacyObjectFormat(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not even json`))
	}))
	defer broken.Close()

	legacy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"Status":"Success","PostOffice":[{"Name":"Fort","District":"Mumbai","State":"Maharashtra"}]}`))
	}))
	defer legacy.Close()

	svc := pincodeServiceWith(broken, legacy)

	info, err := svc.Lookup("400001")
	assert.NoError(t, err)
	assert.Equal(t, "Mumbai", info.City)
	assert.Equal(t, "Maharashtra", info.State)
	assert.Equal(t, "Fort", info.Area)
}

func TestPincodeLookupAllProvidersFail(t *testing.T) {
	down := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer down.Close()

	svc := pincodeServiceWith(down, down, down)

	info, err := svc.Lookup("999999")
	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrPincodeNotFound)
}

func TestSetAndGetPincodeService(t *testing.T) {
	original := GetPincodeService()
	defer SetPincodeService(original)

	svc := NewPincodeService()
	SetPincodeService(svc)
	assert.Equal(t, PincodeInterface(svc), GetPincodeService())
}
