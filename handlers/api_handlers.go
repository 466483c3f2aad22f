package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/Alhassan9292/student-portal/models"
	"github.com/Alhassan9292/student-portal/storage"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// APIHandler holds the dependencies for API handlers
type APIHandler struct {
	Service *storage.Service
}

// NewAPIHandler creates a new APIHandler
func NewAPIHandler(service *storage.Service) *APIHandler {
	return &APIHandler{
		Service: service,
	}
}

// --- Student Handlers ---

// GetStudents handles GET /api/students?class=...
func (h *APIHandler) GetStudents(c *gin.Context) {
	students, err := h.Service.ListStudents(c.Request.Context(), c.Query("class"))
	if err != nil {
		log.Printf("Error in GetStudents handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve students"})
		return
	}
	if students == nil {
		// Return empty list instead of null for JSON consistency
		c.JSON(http.StatusOK, []models.Student{})
		return
	}
	c.JSON(http.StatusOK, students)
}

// GetStudentByID handles GET /api/students/:id
func (h *APIHandler) GetStudentByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student ID is required"})
		return
	}

	student, err := h.Service.GetStudent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		log.Printf("Error in GetStudentByID handler for ID %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve student"})
		return
	}

	c.JSON(http.StatusOK, student)
}

// CreateStudent handles POST /api/students
func (h *APIHandler) CreateStudent(c *gin.Context) {
	var input models.Student
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if input.Name == "" || input.Class == "" || input.Grade == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, class and grade are required"})
		return
	}

	student, err := h.Service.CreateStudent(c.Request.Context(), input)
	if err != nil {
		log.Printf("Error in CreateStudent handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add student"})
		return
	}

	c.JSON(http.StatusCreated, student)
}

// UpdateStudent handles PUT /api/students/:id
func (h *APIHandler) UpdateStudent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student ID is required"})
		return
	}

	var input models.Student
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body: " + err.Error()})
		return
	}

	if input.Name == "" || input.Class == "" || input.Grade == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Name, class and grade are required"})
		return
	}

	student, err := h.Service.UpdateStudent(c.Request.Context(), id, input)
	if err != nil {
		if errors.Is(err, storage.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		log.Printf("Error in UpdateStudent handler for ID %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update student"})
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent handles DELETE /api/students/:id
func (h *APIHandler) DeleteStudent(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Student ID is required"})
		return
	}

	err := h.Service.DeleteStudent(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrStudentNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Student not found"})
			return
		}
		log.Printf("Error in DeleteStudent handler for ID %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete student"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- Class Handlers ---

// GetClasses handles GET /api/classes
func (h *APIHandler) GetClasses(c *gin.Context) {
	classes, err := h.Service.ListClasses(c.Request.Context())
	if err != nil {
		log.Printf("Error in GetClasses handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve classes"})
		return
	}
	if classes == nil {
		// Return empty list instead of null for JSON consistency
		c.JSON(http.StatusOK, []string{})
		return
	}
	c.JSON(http.StatusOK, classes)
}

// --- Import / Export Handlers ---

// ImportStudents handles POST /api/import/students. It reads an uploaded
// spreadsheet with Name | Class | Grade columns and creates one student per
// valid row.
func (h *APIHandler) ImportStudents(c *gin.Context) {
	file, header, err := c.Request.FormFile("file") // "file" is the name attribute in the form
	if err != nil {
		log.Printf("Error getting form file: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Error retrieving uploaded file: " + err.Error()})
		return
	}
	defer file.Close()

	log.Printf("Received student import upload: %s", header.Filename)

	f, err := excelize.OpenReader(file)
	if err != nil {
		log.Printf("Error opening uploaded file %s: %v", header.Filename, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Uploaded file is not a valid spreadsheet"})
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing spreadsheet: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Spreadsheet contains no sheets"})
		return
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Printf("Error reading rows from sheet %q: %v", sheetName, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read spreadsheet rows"})
		return
	}

	importedCount := 0
	for i, row := range rows {
		if i == 0 {
			continue // skip header row
		}
		var name, class, grade string
		if len(row) > 0 {
			name = row[0]
		}
		if len(row) > 1 {
			class = row[1]
		}
		if len(row) > 2 {
			grade = row[2]
		}
		if name == "" || class == "" || grade == "" {
			log.Printf("Skipping row %d due to missing fields (name: %q, class: %q, grade: %q)", i+1, name, class, grade)
			continue
		}
		input := models.Student{Name: name, Class: class, Grade: models.Grade(grade)}
		if _, err := h.Service.CreateStudent(c.Request.Context(), input); err != nil {
			log.Printf("Error importing row %d (%s): %v", i+1, name, err)
			continue
		}
		importedCount++
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Import successful",
		"importedCount": importedCount,
	})
}

// ExportStudents handles GET /api/export/students?class=... and responds
// with an xlsx download of the selected records.
func (h *APIHandler) ExportStudents(c *gin.Context) {
	students, err := h.Service.ListStudents(c.Request.Context(), c.Query("class"))
	if err != nil {
		log.Printf("Error in ExportStudents handler: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve students"})
		return
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing spreadsheet: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	f.SetCellValue(sheetName, "A1", "Id")
	f.SetCellValue(sheetName, "B1", "Name")
	f.SetCellValue(sheetName, "C1", "Class")
	f.SetCellValue(sheetName, "D1", "Grade")
	for i, s := range students {
		row := i + 2
		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), s.ID)
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), s.Name)
		f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), s.Class)
		f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), string(s.Grade))
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		log.Printf("Error building export spreadsheet: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to build export"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="students.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

// --- Ping Handler ---

func PingHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}

// StaticFallback serves files from dir for every route the API does not
// claim. Paths that do not match a regular file fall back to index.html, so
// the single page stays reachable under any client-side route. Non-GET
// requests get a JSON 404 instead of a page.
func StaticFallback(dir string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
			return
		}
		name := filepath.Join(dir, filepath.Clean("/"+c.Request.URL.Path))
		if info, err := os.Stat(name); err == nil && info.Mode().IsRegular() {
			c.File(name)
			return
		}
		c.File(filepath.Join(dir, "index.html"))
	}
}
