package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"voltshop/apperr"
	"voltshop/db"
	"voltshop/models"
	"voltshop/utils"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type credentials struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Password    string `json:"password"`
}

// Register creates a customer account. Staff and admin accounts are
// provisioned out of band.
func (s *Service) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	if input.Email == "" || len(input.Password) < 6 {
		utils.RespondWithError(w, apperr.BadRequest("Email and a password of at least 6 characters are required"))
		return
	}

	count, err := db.UserCollection.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	if count > 0 {
		utils.RespondWithError(w, apperr.Conflict("An account with this email already exists"))
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}

	user := models.User{
		ID:           primitive.NewObjectID(),
		UID:          utils.GetUUID(),
		Name:         input.Name,
		Email:        input.Email,
		PhoneNumber:  input.PhoneNumber,
		PasswordHash: string(hash),
		Role:         models.RoleCustomer,
		CreatedAt:    time.Now(),
	}
	if _, err := db.UserCollection.InsertOne(ctx, user); err != nil {
		log.Println("Register InsertOne error:", err)
		utils.RespondWithError(w, err)
		return
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, utils.M{
		"token": token,
		"uid":   user.UID,
	})
}

// Login authenticates any role against the users collection.
func (s *Service) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	var input credentials
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		utils.RespondWithError(w, apperr.BadRequest("Invalid JSON payload"))
		return
	}
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	var user models.User
	err := db.UserCollection.FindOne(ctx, bson.M{"email": input.Email, "isDeleted": false}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			utils.RespondWithError(w, apperr.Unauthorized("Invalid email or password"))
			return
		}
		utils.RespondWithError(w, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		utils.RespondWithError(w, apperr.Unauthorized("Invalid email or password"))
		return
	}

	token, err := s.generateAccessToken(user)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusOK, utils.M{
		"token": token,
		"uid":   user.UID,
		"role":  user.Role,
	})
}

// GuestSession issues an anonymous session token so unauthenticated
// visitors can carry a cart.
func (s *Service) GuestSession(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := utils.GetUUID()
	token, err := s.generateSessionToken(sessionID)
	if err != nil {
		utils.RespondWithError(w, err)
		return
	}
	utils.RespondWithData(w, http.StatusCreated, utils.M{
		"token":     token,
		"sessionId": sessionID,
	})
}
