package controllers

import (
	"net/http"

	"petcare-backend/models"
	"petcare-backend/services"
	"petcare-backend/utils"

	"github.com/gin-gonic/gin"
)

type CreatePetInput struct {
	Name      string `json:"name" binding:"required"`
	Species   string `json:"species"`
	Breed     string `json:"breed"`
	BirthDate string `json:"birthDate"`
	Notes     string `json:"notes"`
}

// UpdatePetInput uses pointers so omitted fields are left alone
type UpdatePetInput struct {
	Name      *string `json:"name"`
	Species   *string `json:"species"`
	Breed     *string `json:"breed"`
	BirthDate *string `json:"birthDate"`
	Notes     *string `json:"notes"`
}

type PetController struct {
	Pets *services.PetService
}

func (pc *PetController) CreatePet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	var input CreatePetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if input.BirthDate != "" && !utils.ValidateDate(input.BirthDate) {
		utils.RespondWithError(c, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
		return
	}

	pet, err := pc.Pets.Create(c.Request.Context(), userID, &models.Pet{
		Name:      input.Name,
		Species:   input.Species,
		Breed:     input.Breed,
		BirthDate: input.BirthDate,
		Notes:     input.Notes,
	})
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to create pet")
		return
	}
	c.JSON(http.StatusCreated, pet)
}

func (pc *PetController) GetPets(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	pets, err := pc.Pets.ListForUser(c.Request.Context(), userID)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to fetch pets")
		return
	}
	c.JSON(http.StatusOK, pets)
}

func (pc *PetController) GetPet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	pet, err := pc.Pets.Get(c.Request.Context(), userID, id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

func (pc *PetController) UpdatePet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	var input UpdatePetInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	updates := make(map[string]interface{})
	if input.Name != nil {
		if *input.Name == "" {
			utils.RespondWithError(c, http.StatusBadRequest, "name cannot be empty")
			return
		}
		updates["name"] = *input.Name
	}
	if input.Species != nil {
		updates["species"] = *input.Species
	}
	if input.Breed != nil {
		updates["breed"] = *input.Breed
	}
	if input.BirthDate != nil {
		if *input.BirthDate != "" && !utils.ValidateDate(*input.BirthDate) {
			utils.RespondWithError(c, http.StatusBadRequest, "birthDate must be YYYY-MM-DD")
			return
		}
		updates["birth_date"] = *input.BirthDate
	}
	if input.Notes != nil {
		updates["notes"] = *input.Notes
	}

	pet, err := pc.Pets.Update(c.Request.Context(), userID, id, updates)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, pet)
}

func (pc *PetController) DeletePet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := pc.Pets.Delete(c.Request.Context(), userID, id); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Pet deleted successfully"})
}
