package api

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/recipehub/backend/internal/model"
	"github.com/recipehub/backend/internal/service"
)

type RecipeHandler struct {
	recipeService service.IRecipeService
}

func NewRecipeHandler(recipeService service.IRecipeService) *RecipeHandler {
	return &RecipeHandler{
		recipeService: recipeService,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/recipes", h.AddRecipe)
	router.GET("/recipes", h.GetRecipes)
	router.GET("/recipes/:id", h.GetRecipeByID)
	router.PUT("/edit/recipes/:id", h.UpdateRecipe)
	router.DELETE("/recipes/:id", h.DeleteRecipe)
}

// statusForError maps internal error kinds onto the external contract:
// not-found is 404, everything else on item paths stays 400.
func statusForError(err error) int {
	if service.IsNotFound(err) {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusForError(err), Response{Success: false, Message: err.Error()})
}

// spoolUploadedImage writes the multipart image to a temp file and returns
// the upload descriptor, or nil when no image was sent.
func spoolUploadedImage(c *gin.Context) (*service.ImageUpload, error) {
	file, err := c.FormFile("image")
	if err != nil {
		// No image field in the form.
		return nil, nil
	}

	tempPath := filepath.Join(os.TempDir(), "recipehub-upload-"+uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tempPath); err != nil {
		return nil, service.NewDependencyError("failed to store uploaded image", err)
	}

	return &service.ImageUpload{
		TempPath:    tempPath,
		ContentType: file.Header.Get("Content-Type"),
	}, nil
}

func (h *RecipeHandler) AddRecipe(c *gin.Context) {
	image, err := spoolUploadedImage(c)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipeService.CreateRecipe(c.Request.Context(), service.CreateRecipeInput{
		Title:        c.PostForm("title"),
		Ingredients:  c.PostForm("ingredients"),
		Instructions: c.PostForm("instructions"),
		Image:        image,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, Response{Success: true, Data: recipe})
}

func (h *RecipeHandler) GetRecipes(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	list, err := h.recipeService.ListRecipes(c.Request.Context(), page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, Response{Success: false, Message: "Internal Server Error"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Success:    true,
		Total:      list.Total,
		Pagination: Pagination{Page: list.Page, Pages: list.Pages},
		Data:       list.Data,
	})
}

func (h *RecipeHandler) GetRecipeByID(c *gin.Context) {
	recipe, err := h.recipeService.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: recipe})
}

// UpdateRecipe accepts either multipart form data (with an optional image)
// or a plain JSON body with any subset of the mutable fields.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var patch model.RecipePatch
	var image *service.ImageUpload

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		// Absent fields stay nil so the merge leaves them unchanged.
		if v, ok := c.GetPostForm("title"); ok {
			patch.Title = &v
		}
		if v, ok := c.GetPostForm("ingredients"); ok {
			patch.Ingredients = &v
		}
		if v, ok := c.GetPostForm("instructions"); ok {
			patch.Instructions = &v
		}

		var err error
		image, err = spoolUploadedImage(c)
		if err != nil {
			respondError(c, err)
			return
		}
	} else {
		if err := c.ShouldBindJSON(&patch); err != nil {
			c.JSON(http.StatusBadRequest, Response{Success: false, Message: err.Error()})
			return
		}
	}

	recipe, err := h.recipeService.UpdateRecipe(c.Request.Context(), c.Param("id"), patch, image)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Data: recipe})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	if err := h.recipeService.DeleteRecipe(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, Response{Success: true, Message: "Recipe deleted successfully"})
}
