package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"civicgo/backend/internal/models"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	// 10-digit mobile numbers starting with 6-9, matching the signup form.
	mobilePattern = regexp.MustCompile(`^[6-9]\d{9}$`)
)

// generateJWT issues a signed token carrying the user's identity.
func (h *Handler) generateJWT(userID, name string) (string, error) {
	claims := jwt.MapClaims{
		"user_id": userID,
		"name":    name,
		"exp":     time.Now().Add(time.Hour * 72).Unix(),
		"iss":     "civicgo-portal",
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(h.jwtSecret)
}

// userIDFromToken validates a bearer token and returns the user id claim.
func (h *Handler) userIDFromToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return "", errors.New("missing user_id claim")
	}
	return userID, nil
}

// bearerToken extracts the token from the Authorization header, or "".
func bearerToken(c *gin.Context) string {
	auth := c.GetHeader("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
		return auth[7:]
	}
	return ""
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/login.
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_DATA", "message": "Malformed login request"})
		return
	}

	user, err := h.Storage.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		h.Log.Error("login lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid credentials"})
		return
	}

	token, err := h.generateJWT(user.ID, user.Name)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":    token,
		"userId":   user.ID,
		"userName": user.Name,
	})
}

// Signup handles POST /api/auth/signup (multipart form, matching the portal
// front end). Validation mirrors the client side so a bypassed form still
// cannot register garbage.
func (h *Handler) Signup(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	mobile := strings.TrimSpace(c.PostForm("mobile"))
	email := strings.ToLower(strings.TrimSpace(c.PostForm("email")))
	address := strings.TrimSpace(c.PostForm("address"))
	password := c.PostForm("password")

	if name == "" || mobile == "" || email == "" || address == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_DATA", "message": "Please fill in all required fields."})
		return
	}
	if !emailPattern.MatchString(email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_DATA", "message": "Please enter a valid email address."})
		return
	}
	if !mobilePattern.MatchString(mobile) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_DATA", "message": "Please enter a valid 10-digit mobile number."})
		return
	}

	existing, err := h.Storage.GetUserByEmail(email)
	if err != nil {
		h.Log.Error("signup lookup failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred"})
		return
	}
	if existing != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "EMAIL_EXISTS", "message": "This email is already registered."})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "An unexpected error occurred"})
		return
	}

	user := &models.User{
		Name:         name,
		Mobile:       mobile,
		Email:        email,
		Address:      address,
		PasswordHash: string(hash),
	}
	if err := h.Storage.CreateUser(user); err != nil {
		h.Log.Error("signup insert failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Signup failed. Please try again."})
		return
	}

	h.Log.Info("user registered", zap.String("user", user.ID))
	c.JSON(http.StatusCreated, gin.H{"message": "Signup successful! You can now log in with your credentials."})
}
