package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/om-engineers/om-engineers-api/config"
	"github.com/om-engineers/om-engineers-api/models"
	"github.com/om-engineers/om-engineers-api/services"
)

// customerContextKey is the Gin context key holding the authenticated customer
const customerContextKey = "customer"

// ExtractCustomer resolves the customer from the request credentials,
// trying headers before query and form parameters. Within each group the
// first credential present is authoritative: an invalid Bearer token does
// not fall through to X-Auth-Token.
func ExtractCustomer(c *gin.Context) *models.Customer {
	if customer := customerFromHeaders(c); customer != nil {
		return customer
	}
	return customerFromParams(c)
}

// customerFromHeaders checks Authorization (Bearer), X-Auth-Token and
// X-Auth-Key, in that order
func customerFromHeaders(c *gin.Context) *models.Customer {
	db := config.GetDB()

	if authHeader := c.GetHeader("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
		token := strings.TrimPrefix(authHeader, "Bearer ")
		return services.ValidateToken(db, token)
	}

	if token := c.GetHeader("X-Auth-Token"); token != "" {
		return services.ValidateToken(db, token)
	}

	if authKey := c.GetHeader("X-Auth-Key"); authKey != "" {
		return services.ValidateAuthKey(db, authKey)
	}

	return nil
}

// customerFromParams checks the token and auth_key query/form parameters,
// in that order
func customerFromParams(c *gin.Context) *models.Customer {
	db := config.GetDB()

	if token := requestParam(c, "token"); token != "" {
		return services.ValidateToken(db, token)
	}

	if authKey := requestParam(c, "auth_key"); authKey != "" {
		return services.ValidateAuthKey(db, authKey)
	}

	return nil
}

// requestParam reads a request value from the query string first, then the
// form body
func requestParam(c *gin.Context, name string) string {
	if value := c.Query(name); value != "" {
		return value
	}
	return c.PostForm(name)
}

// RequireCustomerAuth rejects requests that carry no valid customer
// credential. On success the customer is stored in the context for
// CurrentCustomer.
func RequireCustomerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		customer := ExtractCustomer(c)
		if customer == nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "AUTH_REQUIRED",
					"message": "Authentication required. Please log in.",
				},
			})
			c.Abort()
			return
		}

		c.Set(customerContextKey, customer)
		c.Next()
	}
}

// OptionalCustomerAuth stores the customer in the context when a valid
// credential is present, and lets the request through either way
func OptionalCustomerAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if customer := ExtractCustomer(c); customer != nil {
			c.Set(customerContextKey, customer)
		}
		c.Next()
	}
}

// CurrentCustomer returns the authenticated customer stored by the
// middleware, if any
func CurrentCustomer(c *gin.Context) (*models.Customer, bool) {
	value, exists := c.Get(customerContextKey)
	if !exists {
		return nil, false
	}

	customer, ok := value.(*models.Customer)
	if !ok {
		return nil, false
	}
	return customer, true
}
