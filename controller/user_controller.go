package controller

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/foyezullahnishan/MovieAPI/models"
	"github.com/foyezullahnishan/MovieAPI/utils"
)

// RegisterUser creates an account with role "user" and returns a signed
// token alongside the profile fields.
func RegisterUser(client *mongo.Client, dbName, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var input models.RegisterInput
		if err := c.ShouldBindJSON(&input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user data"})
			return
		}
		if err := validator.New().Struct(input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid user data"})
			return
		}

		userColl := collection(client, dbName, "users")

		email := strings.ToLower(strings.TrimSpace(input.Email))
		count, err := userColl.CountDocuments(ctx, bson.M{"$or": []bson.M{
			{"email": email},
			{"username": input.Username},
		}})
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "User already exists"})
			return
		}

		hashed, err := utils.HashPassword(input.Password)
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
			return
		}

		now := time.Now()
		user := models.User{
			ID:        bson.NewObjectID(),
			Username:  input.Username,
			Email:     email,
			Password:  hashed,
			Role:      models.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if _, err := userColl.InsertOne(ctx, user); err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
			return
		}

		token, err := utils.GenerateToken(user.ID.Hex(), user.Username, user.Role, jwtSecret)
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to create user"})
			return
		}

		c.JSON(http.StatusCreated, models.AuthResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
			Token:    token,
		})
	}
}

// LoginUser verifies credentials and returns a signed token. Bad email and
// bad password are indistinguishable to the caller.
func LoginUser(client *mongo.Client, dbName, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		var input models.LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid login data"})
			return
		}
		if err := validator.New().Struct(input); err != nil {
			log.Println(err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid login data"})
			return
		}

		var user models.User
		email := strings.ToLower(strings.TrimSpace(input.Email))
		err := collection(client, dbName, "users").FindOne(ctx, bson.M{"email": email}).Decode(&user)
		if err != nil {
			if err != mongo.ErrNoDocuments {
				log.Println(err)
			}
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}

		if err := utils.VerifyPassword(input.Password, user.Password); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Invalid email or password"})
			return
		}

		token, err := utils.GenerateToken(user.ID.Hex(), user.Username, user.Role, jwtSecret)
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to sign in"})
			return
		}

		c.JSON(http.StatusOK, models.AuthResponse{
			ID:       user.ID,
			Username: user.Username,
			Email:    user.Email,
			Role:     user.Role,
			Token:    token,
		})
	}
}

// GetProfile returns the authenticated user's record, password excluded.
func GetProfile(client *mongo.Client, dbName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := requestContext(c)
		defer cancel()

		userID, err := utils.GetUserIDFromContext(c)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}
		id, err := bson.ObjectIDFromHex(userID)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
			return
		}

		var user models.User
		err = collection(client, dbName, "users").FindOne(ctx, bson.M{"_id": id}).Decode(&user)
		if err == mongo.ErrNoDocuments {
			// the token outlived its account
			c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, token failed"})
			return
		}
		if err != nil {
			log.Println(err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Unable to fetch profile"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
