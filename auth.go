package main

import (
	"database/sql"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// tokenTTL is how long an issued session token stays valid.
const tokenTTL = 7 * 24 * time.Hour

// Claims is the token payload: the sole source of identity for every
// protected request. No server-side session store exists.
type Claims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

func jwtSecret() []byte {
	s := os.Getenv("JWT_SECRET")
	if s == "" {
		s = "defaultsecret"
	}
	return []byte(s)
}

func GenerateToken(user User) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: user.ID,
		Role:   user.Role,
		Name:   user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}

func ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return jwtSecret(), nil
		})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ========================
// REGISTER HANDLER
// ========================

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

func Register(c *gin.Context) {
	var body RegisterRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "Name, email, password required")
		return
	}

	role := RoleAnggota
	if body.Role == RoleAdmin {
		role = RoleAdmin
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "could not hash password")
		return
	}

	user := User{
		Name:         strings.TrimSpace(body.Name),
		Email:        normalizeEmail(body.Email),
		PasswordHash: string(hash),
		Role:         role,
	}

	err = createUserWithQuota(&user)
	if err != nil {
		if errors.Is(err, errAdminQuota) {
			jsonError(c, http.StatusBadRequest, "Kuota Admin penuh (Maksimal 3 Admin).")
			return
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) || isDuplicateEmail(err) {
			jsonError(c, http.StatusBadRequest, "Email ini sudah terdaftar.")
			return
		}
		jsonError(c, http.StatusInternalServerError, "could not create user: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Akun berhasil dibuat! Silakan Login.",
		"user":    toUserResponse(user),
	})
}

var errAdminQuota = errors.New("admin quota exceeded")

// createUserWithQuota inserts the user, counting admin seats and
// creating the row inside one SERIALIZABLE transaction so two
// concurrent admin registrations cannot both observe a free seat. When
// the database aborts one of the racing transactions, that attempt is
// retried and re-runs the count against the committed state.
func createUserWithQuota(user *User) error {
	opts := &sql.TxOptions{Isolation: sql.LevelSerializable}
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = DB.Transaction(func(tx *gorm.DB) error {
			if user.Role == RoleAdmin {
				var admins int64
				if err := tx.Model(&User{}).Where("role = ?", RoleAdmin).Count(&admins).Error; err != nil {
					return err
				}
				if admins >= MaxAdmins {
					return errAdminQuota
				}
			}
			return tx.Create(user).Error
		}, opts)
		if !isSerializationFailure(err) {
			return err
		}
	}
	return err
}

// isSerializationFailure matches the abort a SERIALIZABLE transaction
// gets when it loses a race (SQLSTATE 40001 on postgres).
func isSerializationFailure(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "40001") || strings.Contains(msg, "serialization")
}

// isDuplicateEmail matches unique-violation messages across drivers;
// gorm only translates them to ErrDuplicatedKey when the dialect
// supports it.
func isDuplicateEmail(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ========================
// LOGIN HANDLER
// ========================

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func Login(c *gin.Context) {
	var body LoginRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "Email dan password wajib.")
		return
	}

	// One generic message for both unknown email and wrong password so
	// the response never reveals which field failed.
	var user User
	if err := DB.Where("email = ?", normalizeEmail(body.Email)).First(&user).Error; err != nil {
		jsonError(c, http.StatusUnauthorized, "Email atau password tidak sesuai.")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
		jsonError(c, http.StatusUnauthorized, "Email atau password tidak sesuai.")
		return
	}

	token, err := GenerateToken(user)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":  toUserResponse(user),
		"token": token,
	})
}
