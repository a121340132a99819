package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/erp/procurement/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	type line struct {
		ProductID string `json:"product_id" binding:"required"`
		Qty       int    `form:"qty" binding:"gt=0"`
		Internal  string `json:"-" binding:"required"`
	}
	err := binding.Validator.ValidateStruct(&line{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	fields := make([]string, 0, len(verrs))
	for _, e := range verrs {
		fields = append(fields, e.Field())
	}
	assert.ElementsMatch(t, []string{"product_id", "qty", "Internal"}, fields,
		"json then form tag names, struct name when hidden")
}

func TestBusinessTags(t *testing.T) {
	SetupValidator()
	SetupValidator()

	type supplierInput struct {
		Code     string `binding:"required,max=50,code"`
		Currency string `binding:"omitempty,currency"`
	}

	tests := []struct {
		name    string
		input   supplierInput
		failsOn string
		wantMsg string
	}{
		{"valid", supplierInput{Code: "SUP-001_a", Currency: "USD"}, "", ""},
		{"lower case currency", supplierInput{Code: "SUP01", Currency: "eur"}, "", ""},
		{"currency omitted", supplierInput{Code: "SUP01"}, "", ""},
		{"unsupported currency", supplierInput{Code: "SUP01", Currency: "XYZ"}, "Currency", "Unsupported currency code"},
		{"code with space", supplierInput{Code: "SUP 01"}, "Code", ""},
		{"code with slash", supplierInput{Code: "SUP/01"}, "Code", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := binding.Validator.ValidateStruct(&tt.input)
			if tt.failsOn == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			require.Len(t, verrs, 1)
			assert.Equal(t, tt.failsOn, verrs[0].Field())
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, getValidationMessage(verrs[0]))
			}
		})
	}
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	type receiveLine struct {
		ProductID string  `json:"product_id" binding:"required,uuid"`
		Quantity  float64 `json:"quantity" binding:"gt=0"`
	}
	type receiveRequest struct {
		Lines []receiveLine `json:"lines" binding:"required,min=1,dive"`
	}

	router := gin.New()
	router.Use(RequestID())
	router.POST("/purchase-orders/:id/receive", func(c *gin.Context) {
		var req receiveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	post := func(body string) (*httptest.ResponseRecorder, dto.Response) {
		req := httptest.NewRequest(http.MethodPost, "/purchase-orders/1/receive", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(RequestIDHeader, "rcv-1")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		return w, resp
	}

	t.Run("every failing line is reported", func(t *testing.T) {
		w, resp := post(`{"lines":[{"product_id":"nope","quantity":0}]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
		assert.Equal(t, "rcv-1", resp.Error.RequestID)

		messages := make(map[string]string)
		for _, d := range resp.Error.Details {
			messages[d.Field] = d.Message
		}
		assert.Equal(t, map[string]string{
			"product_id": "Invalid UUID format",
			"quantity":   "Must be greater than 0",
		}, messages)
	})

	t.Run("empty receipt", func(t *testing.T) {
		w, resp := post(`{"lines":[]}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "lines", resp.Error.Details[0].Field)
		assert.Equal(t, "Must be at least 1", resp.Error.Details[0].Message)
	})

	t.Run("valid receipt", func(t *testing.T) {
		w, _ := post(`{"lines":[{"product_id":"6f1c2a0e-3f44-4a55-9c1b-0d6a1f3c9e21","quantity":4}]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	SetupValidator()

	type supplierRequest struct {
		Name        string  `json:"name" binding:"required"`
		Code        string  `json:"code" binding:"max=5"`
		Email       string  `json:"email" binding:"omitempty,email"`
		Website     string  `json:"website" binding:"omitempty,url"`
		Status      string  `json:"status" binding:"omitempty,oneof=ACTIVE INACTIVE"`
		Rating      float64 `json:"rating" binding:"lte=5"`
		PaymentDays int     `json:"payment_days" binding:"gte=0"`
		BankAccount string  `json:"bank_account" binding:"required_with=BankName"`
		BankName    string  `json:"bank_name"`
	}

	err := binding.Validator.ValidateStruct(&supplierRequest{
		Code:        "TOO-LONG",
		Email:       "buyer@",
		Website:     "not a url",
		Status:      "DELETED",
		Rating:      7,
		PaymentDays: -1,
		BankName:    "First Bank",
	})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	got := make(map[string]string, len(verrs))
	for _, e := range verrs {
		got[e.Field()] = getValidationMessage(e)
	}
	assert.Equal(t, map[string]string{
		"name":         "This field is required",
		"code":         "Must be at most 5 characters",
		"email":        "Invalid email format",
		"website":      "Invalid URL format",
		"status":       "Must be one of: ACTIVE INACTIVE",
		"rating":       "Must be less than or equal to 5",
		"payment_days": "Must be greater than or equal to 0",
		"bank_account": "Required together with BankName",
	}, got)
}

func TestHandleValidationError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("handles validator.ValidationErrors", func(t *testing.T) {
		type Input struct {
			Name string `json:"name" binding:"required"`
		}

		router := gin.New()
		router.POST("/test", func(c *gin.Context) {
			var input Input
			if err := c.ShouldBindJSON(&input); err != nil {
				HandleValidationError(c, err)
				return
			}
		})

		body := strings.NewReader(`{}`)
		req := httptest.NewRequest("POST", "/test", body)
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "VALIDATION_ERROR")
	})

	t.Run("reports malformed JSON", func(t *testing.T) {
		type Input struct {
			Name string `json:"name" binding:"required"`
		}

		router := gin.New()
		router.POST("/test", func(c *gin.Context) {
			var input Input
			if err := c.ShouldBindJSON(&input); err != nil {
				HandleValidationError(c, err)
				return
			}
		})

		req := httptest.NewRequest("POST", "/test", strings.NewReader(`{"name":`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), dto.ErrCodeInvalidJSON)
	})
}
