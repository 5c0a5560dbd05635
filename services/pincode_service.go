package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Pincode lookup errors. ErrInvalidPincode means the input is malformed;
// ErrPincodeNotFound means every provider was tried without a usable answer.
var (
	ErrInvalidPincode  = errors.New("invalid PIN code format")
	ErrPincodeNotFound = errors.New("PIN code not found in any data source")
)

// PincodeInfo holds the location details resolved from a postal PIN code
type PincodeInfo struct {
	City  string `json:"city"`
	State string `json:"state"`
	Area  string `json:"area"`
}

// PincodeInterface defines the interface for postal PIN code lookups
type PincodeInterface interface {
	Lookup(pincode string) (*PincodeInfo, error)
}

// pincodeProvider is one upstream source. The URL carries a single %s verb
// for the PIN code; parse extracts a result from the raw body, returning
// nil when the body holds no usable answer.
type pincodeProvider struct {
	name  string
	url   string
	parse func(body []byte) *PincodeInfo
}

// PincodeService resolves PIN codes by trying several public providers in
// order, first success wins. Provider failures are swallowed; only total
// failure surfaces to the caller.
type PincodeService struct {
	httpClient *http.Client
	providers  []pincodeProvider
}

var pincodeServiceInstance PincodeInterface

// InitPincodeService initializes the PIN code lookup service
func InitPincodeService() PincodeInterface {
	pincodeServiceInstance = NewPincodeService()
	return pincodeServiceInstance
}

// GetPincodeService returns the initialized PIN code lookup service
func GetPincodeService() PincodeInterface {
	return pincodeServiceInstance
}

// SetPincodeService sets the PIN code lookup service (primarily for testing)
func SetPincodeService(service PincodeInterface) {
	pincodeServiceInstance = service
}

// NewPincodeService builds a service over the default public providers
func NewPincodeService() *PincodeService {
	return &PincodeService{
		httpClient: &http.Client{
			Timeout: 3 * time.Second,
		},
		providers: []pincodeProvider{
			{
				name:  "postalpincode.in",
				url:   "https://api.postalpincode.in/pincode/%s",
				parse: parsePostalPincodeList,
			},
			{
				name:  "postalpincode.in (legacy)",
				url:   "http://www.postalpincode.in/api/pincode/%s",
				parse: parsePostalPincodeObject,
			},
			{
				name:  "zippopotam.us",
				url:   "https://api.zippopotam.us/IN/%s",
				parse: parseZippopotam,
			},
		},
	}
}

// Lookup resolves a 6-digit PIN code to a city, state and area
func (s *PincodeService) Lookup(pincode string) (*PincodeInfo, error) {
	if !isValidPincode(pincode) {
		return nil, ErrInvalidPincode
	}

	for _, provider := range s.providers {
		info := s.tryProvider(provider, pincode)
		if info != nil {
			return info, nil
		}
	}

	return nil, ErrPincodeNotFound
}

// tryProvider queries one provider, returning nil on any failure so the
// caller can move on to the next source
func (s *PincodeService) tryProvider(provider pincodeProvider, pincode string) *PincodeInfo {
	resp, err := s.httpClient.Get(fmt.Sprintf(provider.url, pincode))
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil
	}

	return provider.parse(body)
}

func isValidPincode(pincode string) bool {
	if len(pincode) != 6 {
		return false
	}
	for _, r := range pincode {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// postalPincodeEntry is the shared record shape of both postalpincode.in
// formats
type postalPincodeEntry struct {
	Status     string `json:"Status"`
	PostOffice []struct {
		Name     string `json:"Name"`
		District string `json:"District"`
		State    string `json:"State"`
	} `json:"PostOffice"`
}

// parsePostalPincodeList handles the current API, which wraps the entry in
// a single-element array
func parsePostalPincodeList(body []byte) *PincodeInfo {
	var entries []postalPincodeEntry
	if err := json.Unmarshal(body, &entries); err != nil || len(entries) == 0 {
		return nil
	}
	return postalPincodeToInfo(entries[0])
}

// parsePostalPincodeObject handles the legacy API, which returns the entry
// bare
func parsePostalPincodeObject(body []byte) *PincodeInfo {
	var entry postalPincodeEntry
	if err := json.Unmarshal(body, &entry); err != nil {
		return nil
	}
	return postalPincodeToInfo(entry)
}

func postalPincodeToInfo(entry postalPincodeEntry) *PincodeInfo {
	if entry.Status != "Success" || len(entry.PostOffice) == 0 {
		return nil
	}
	office := entry.PostOffice[0]
	return &PincodeInfo{
		City:  office.District,
		State: office.State,
		Area:  office.Name,
	}
}

func parseZippopotam(body []byte) *PincodeInfo {
	var reply struct {
		Places []struct {
			PlaceName string `json:"place name"`
			State     string `json:"state"`
		} `json:"places"`
	}
	if err := json.Unmarshal(body, &reply); err != nil || len(reply.Places) == 0 {
		return nil
	}
	place := reply.Places[0]
	return &PincodeInfo{
		City:  place.PlaceName,
		State: place.State,
		Area:  place.PlaceName,
	}
}
