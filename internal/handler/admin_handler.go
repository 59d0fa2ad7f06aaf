package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/collegelink-api/internal/domain/repository"
	"github.com/yourusername/collegelink-api/internal/handler/dto"
)

// AdminHandler serves operational endpoints: inspecting accounts,
// wiping test data and exporting the account list.
type AdminHandler struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

func NewAdminHandler(userRepo repository.UserRepository, postRepo repository.PostRepository) *AdminHandler {
	return &AdminHandler{userRepo: userRepo, postRepo: postRepo}
}

// ListUsers handles GET /api/admin/users.
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit < 1 || limit > 500 {
		limit = 50
	}

	users, err := h.userRepo.List(limit, (page-1)*limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"users":    dto.NewUserDTOs(users),
		"page":     page,
		"per_page": limit,
	})
}

// ClearUsers handles DELETE /api/admin/users. Removes every account in
// one statement; repeated calls are no-ops.
func (h *AdminHandler) ClearUsers(c *gin.Context) {
	if err := h.userRepo.DeleteAll(); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[AdminHandler] all users cleared by admin request")
	c.JSON(http.StatusOK, gin.H{"message": "All users deleted"})
}

// ClearPosts handles DELETE /api/admin/posts.
func (h *AdminHandler) ClearPosts(c *gin.Context) {
	if err := h.postRepo.DeleteAll(); err != nil {
		respondError(c, err)
		return
	}
	log.Printf("[AdminHandler] all posts cleared by admin request")
	c.JSON(http.StatusOK, gin.H{"message": "All posts deleted"})
}

// ExportUsers handles GET /api/admin/users/export. Streams the account
// list as an .xlsx attachment.
func (h *AdminHandler) ExportUsers(c *gin.Context) {
	// Large enough page for an export; paginate the repo anyway so a
	// runaway table cannot blow up memory in one slice.
	const batchSize = 1000

	filename := fmt.Sprintf("users-%s", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Users"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AdminHandler] failed to create stream writer: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file", "error_type": "internal_error"})
		return
	}

	headers := []interface{}{"ID", "Full Name", "Email", "University", "Program", "Year", "Verified", "Created At"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AdminHandler] failed to write headers: %v", err)
	}

	rowNum := 2
	for offset := 0; ; offset += batchSize {
		users, err := h.userRepo.List(batchSize, offset)
		if err != nil {
			log.Printf("[AdminHandler] failed to list users for export: %v", err)
			break
		}
		if len(users) == 0 {
			break
		}

		for i := range users {
			u := &users[i]
			verified := "No"
			if u.IsEmailVerified {
				verified = "Yes"
			}
			row := []interface{}{
				u.ID,
				sanitizeForExcel(u.FullName),
				sanitizeForExcel(u.Email),
				sanitizeForExcel(u.UniversityName),
				sanitizeForExcel(u.Program),
				u.YearOfStudy,
				verified,
				u.CreatedAt.Format(time.RFC3339),
			}
			cell := fmt.Sprintf("A%d", rowNum)
			if err := sw.SetRow(cell, row); err != nil {
				log.Printf("[AdminHandler] failed to write row %d: %v", rowNum, err)
			}
			rowNum++
		}

		if len(users) < batchSize {
			break
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AdminHandler] stream writer flush failed: %v", err)
	}
	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AdminHandler] failed to write Excel response: %v", err)
	}
}

// sanitizeForExcel guards against formula injection in spreadsheet cells.
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
