package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/om-engineers/om-engineers-api/services"
	"github.com/stretchr/testify/assert"
)

// stubPincodeService returns a fixed answer regardless of the PIN code
type stubPincodeService struct {
	info *services.PincodeInfo
	err  error
}

func (s *stubPincodeService) Lookup(pincode string) (*services.PincodeInfo, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.info, nil
}

func TestGetPincodeInfo(t *testing.T) {
	setupControllerConfig()

	tests := []struct {
		name           string
		stub           *stubPincodeService
		expectedStatus int
		expectedCode   string
		checkResponse  func(t *testing.T, response map[string]interface{})
	}{
		{
			name: "Successful lookup",
			stub: &stubPincodeService{
				info: &services.PincodeInfo{
					City:  "Pune",
					State: "Maharashtra",
					Area:  "Shivajinagar",
				},
			},
			expectedStatus: http.StatusOK,
			checkResponse: func(t *testing.T, response map[string]interface{}) {
				assert.True(t, response["success"].(bool))
				assert.Equal(t, "Pune", response["city"])
				assert.Equal(t, "Maharashtra", response["state"])
				assert.Equal(t, "Shivajinagar", response["area"])
			},
		},
		{
			name:           "Invalid PIN code format",
			stub:           &stubPincodeService{err: services.ErrInvalidPincode},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "VALIDATION_ERROR",
		},
		{
			name:           "PIN code not found",
			stub:           &stubPincodeService{err: services.ErrPincodeNotFound},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "PINCODE_NOT_FOUND",
		},
		{
			name:           "Upstream failure",
			stub:           &stubPincodeService{err: errors.New("connection reset")},
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   "SERVER_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			services.SetPincodeService(tt.stub)

			router := setupTestRouter()
			router.GET("/pincode/:pincode", GetPincodeInfo)

			req, _ := http.NewRequest(http.MethodGet, "/pincode/411005", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			var response map[string]interface{}
			err := json.Unmarshal(w.Body.Bytes(), &response)
			assert.NoError(t, err)

			if tt.expectedCode != "" {
				assert.False(t, response["success"].(bool))
				errorData := response["error"].(map[string]interface{})
				assert.Equal(t, tt.expectedCode, errorData["code"])
			}

			if tt.checkResponse != nil {
				tt.checkResponse(t, response)
			}
		})
	}
}
