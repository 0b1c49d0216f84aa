package main

import (
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// jsonError writes the uniform {"error": msg} body every failure uses.
func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

func publicBaseURL() string {
	if base := os.Getenv("API_BASE_URL"); base != "" {
		return strings.TrimRight(base, "/")
	}
	return "http://localhost:" + listenPort()
}

func listenPort() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "4000"
	}
	return port
}

// uploadURL turns a stored relative filename into an absolute URL under
// the static uploads prefix. Values that are already absolute URLs
// (external learning links) pass through unchanged.
func uploadURL(name string) string {
	if name == "" {
		return ""
	}
	if strings.HasPrefix(name, "http://") || strings.HasPrefix(name, "https://") {
		return name
	}
	return publicBaseURL() + "/uploads/" + name
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

// Client-facing shapes. Ids are strings and file references are served
// as absolute URLs.

type UserResponse struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Avatar string `json:"avatar,omitempty"`
}

func toUserResponse(u User) UserResponse {
	return UserResponse{
		ID:     itoa(u.ID),
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Avatar: uploadURL(u.AvatarPath),
	}
}

type GalleryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	URL   string `json:"url"`
}

func toGalleryResponse(p GalleryPhoto) GalleryResponse {
	return GalleryResponse{ID: itoa(p.ID), Title: p.Title, URL: uploadURL(p.ImagePath)}
}

type LearningResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

func toLearningResponse(m LearningMaterial) LearningResponse {
	url := m.ExternalURL
	if url == "" {
		url = uploadURL(m.FilePath)
	}
	return LearningResponse{ID: itoa(m.ID), Title: m.Title, Type: m.Type, URL: url}
}

type ActivityResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Status      string `json:"status"`
}

func toActivityResponse(a Activity) ActivityResponse {
	return ActivityResponse{
		ID:          itoa(a.ID),
		Title:       a.Title,
		Description: a.Description,
		Date:        a.Date,
		Status:      a.Status,
	}
}

type AttendanceResponse struct {
	ID           string `json:"id"`
	MemberName   string `json:"memberName"`
	ActivityName string `json:"activityName"`
	ActivityID   string `json:"activityId"`
	Date         string `json:"date"`
	Status       string `json:"status"`
}

type StructureResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	ParentID string `json:"parentId,omitempty"`
	PhotoURL string `json:"photoUrl,omitempty"`
}

func toStructureResponse(m OrganizationMember) StructureResponse {
	resp := StructureResponse{
		ID:       itoa(m.ID),
		Name:     m.Name,
		Role:     m.Role,
		PhotoURL: uploadURL(m.PhotoPath),
	}
	if m.ParentID != nil {
		resp.ParentID = itoa(*m.ParentID)
	}
	return resp
}

type AchievementResponse struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Year        string `json:"year"`
	Description string `json:"description"`
	PhotoURL    string `json:"photoUrl,omitempty"`
}

func toAchievementResponse(a Achievement) AchievementResponse {
	return AchievementResponse{
		ID:          itoa(a.ID),
		Title:       a.Title,
		Year:        a.Year,
		Description: a.Description,
		PhotoURL:    uploadURL(a.PhotoPath),
	}
}

type ProfileResponse struct {
	History   string              `json:"history"`
	Vision    string              `json:"vision"`
	Mission   []string            `json:"mission"`
	Structure []StructureResponse `json:"structure"`
}
