package main

import (
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// -----------------------------
// Helper functions
// -----------------------------

// getUserIDFromContext expects AuthMiddleware to set "user_id" (uint)
// in context. If not present -> unauthorized.
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	uid, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := uid.(uint)
	return id, ok
}

func getUserNameFromContext(c *gin.Context) string {
	if name, ok := c.Get("user_name"); ok {
		if s, ok := name.(string); ok {
			return s
		}
	}
	return ""
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id64, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id64), true
}

// trimExt drops a filename extension when deriving a default title.
func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// -----------------------------
// Users
// -----------------------------

func GetUsers(c *gin.Context) {
	var users []User
	if err := DB.Order("id").Find(&users).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, toUserResponse(u))
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateMe lets the authenticated user replace their own avatar.
func UpdateMe(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var user User
	if err := DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "user not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	avatar, err := SaveUpload(c, "avatar")
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}
	if avatar != "" {
		old := user.AvatarPath
		if err := DB.Model(&user).Update("avatar_path", avatar).Error; err != nil {
			RemoveUpload(avatar)
			jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
			return
		}
		user.AvatarPath = avatar
		RemoveUpload(old)
	}

	c.JSON(http.StatusOK, toUserResponse(user))
}

// -----------------------------
// Gallery
// -----------------------------

func GetGallery(c *gin.Context) {
	var photos []GalleryPhoto
	if err := DB.Order("id desc").Find(&photos).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	resp := make([]GalleryResponse, 0, len(photos))
	for _, p := range photos {
		resp = append(resp, toGalleryResponse(p))
	}
	c.JSON(http.StatusOK, resp)
}

func CreateGalleryPhoto(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	fh, err := c.FormFile("photo")
	if err != nil {
		jsonError(c, http.StatusBadRequest, "File foto wajib.")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		title = trimExt(fh.Filename)
	}
	if title == "" {
		title = "Foto"
	}

	name, err := saveUploadedFile(c, fh)
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	photo := GalleryPhoto{Title: title, ImagePath: name, CreatedBy: userID}
	if err := DB.Create(&photo).Error; err != nil {
		RemoveUpload(name)
		jsonError(c, http.StatusInternalServerError, "could not save photo: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, toGalleryResponse(photo))
}

func DeleteGalleryPhoto(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var photo GalleryPhoto
	if err := DB.First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	if err := DB.Delete(&GalleryPhoto{}, id).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "delete failed: "+err.Error())
		return
	}
	RemoveUpload(photo.ImagePath)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// -----------------------------
// Learning materials
// -----------------------------

type CreateLearningRequest struct {
	Title string `json:"title"`
	Type  string `json:"type"`
	URL   string `json:"url"`
}

func GetLearningMaterials(c *gin.Context) {
	var materials []LearningMaterial
	if err := DB.Order("id desc").Find(&materials).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	resp := make([]LearningResponse, 0, len(materials))
	for _, m := range materials {
		resp = append(resp, toLearningResponse(m))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateLearningMaterial accepts either a multipart form carrying a
// "file" upload or a JSON body with an external URL. Exactly one of the
// two must be present; an uploaded file wins when both are sent.
func CreateLearningMaterial(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body CreateLearningRequest
	var originalName string
	var filePath string

	if strings.HasPrefix(c.ContentType(), "application/json") {
		if err := c.ShouldBindJSON(&body); err != nil {
			jsonError(c, http.StatusBadRequest, "invalid body: "+err.Error())
			return
		}
	} else {
		body.Title = c.PostForm("title")
		body.Type = c.PostForm("type")
		body.URL = c.PostForm("url")
		if fh, err := c.FormFile("file"); err == nil {
			originalName = fh.Filename
			name, err := saveUploadedFile(c, fh)
			if err != nil {
				jsonError(c, http.StatusBadRequest, err.Error())
				return
			}
			filePath = name
		}
	}

	externalURL := ""
	if filePath == "" {
		externalURL = strings.TrimSpace(body.URL)
		if externalURL == "" {
			jsonError(c, http.StatusBadRequest, "Berikan file atau URL link.")
			return
		}
	}

	materialType := MaterialPDF
	if body.Type == MaterialVideo {
		materialType = MaterialVideo
	}

	title := strings.TrimSpace(body.Title)
	if title == "" && originalName != "" {
		title = trimExt(originalName)
	}
	if title == "" {
		title = "Materi"
	}

	material := LearningMaterial{
		Title:       title,
		Type:        materialType,
		FilePath:    filePath,
		ExternalURL: externalURL,
		CreatedBy:   userID,
	}
	if err := DB.Create(&material).Error; err != nil {
		RemoveUpload(filePath)
		jsonError(c, http.StatusInternalServerError, "could not save material: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, toLearningResponse(material))
}

func DeleteLearningMaterial(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var material LearningMaterial
	if err := DB.First(&material, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	if err := DB.Delete(&LearningMaterial{}, id).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "delete failed: "+err.Error())
		return
	}
	RemoveUpload(material.FilePath)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// -----------------------------
// Activities (agenda)
// -----------------------------

type CreateActivityRequest struct {
	Title       string `json:"title" binding:"required"`
	Date        string `json:"date" binding:"required"` // "YYYY-MM-DD"
	Time        string `json:"time"`                    // optional "HH:MM"
	Description string `json:"description"`
}

func GetActivities(c *gin.Context) {
	var activities []Activity
	if err := DB.Order("date desc").Find(&activities).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	resp := make([]ActivityResponse, 0, len(activities))
	for _, a := range activities {
		resp = append(resp, toActivityResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func CreateActivity(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body CreateActivityRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "Judul dan tanggal wajib.")
		return
	}

	// Compose an optional time of day into a single timestamp string.
	dateStr := body.Date
	if body.Time != "" {
		dateStr = body.Date + "T" + body.Time
	}

	activity := Activity{
		Title:       strings.TrimSpace(body.Title),
		Description: body.Description,
		Date:        dateStr,
		Status:      ActivityComing,
		CreatedBy:   userID,
	}
	if err := DB.Create(&activity).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not create activity: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, toActivityResponse(activity))
}

// -----------------------------
// Attendance
// -----------------------------

type CreateAttendanceRequest struct {
	ActivityID string `json:"activityId"`
	MemberName string `json:"memberName"`
	Date       string `json:"date"`
}

func GetAttendance(c *gin.Context) {
	type attendanceRow struct {
		ID           uint
		ActivityID   uint
		Status       string
		CreatedAt    time.Time
		ActivityName string
		MemberName   string
	}

	var rows []attendanceRow
	err := DB.Model(&AttendanceRecord{}).
		Select("attendance_records.id, attendance_records.activity_id, attendance_records.status, attendance_records.created_at, activities.title as activity_name, users.name as member_name").
		Joins("LEFT JOIN activities ON activities.id = attendance_records.activity_id").
		Joins("LEFT JOIN users ON users.id = attendance_records.user_id").
		Order("attendance_records.created_at desc").
		Scan(&rows).Error
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	resp := make([]AttendanceResponse, 0, len(rows))
	for _, r := range rows {
		memberName := r.MemberName
		if memberName == "" {
			memberName = "Guest"
		}
		activityName := r.ActivityName
		if activityName == "" {
			activityName = "Kegiatan"
		}
		resp = append(resp, AttendanceResponse{
			ID:           itoa(r.ID),
			MemberName:   memberName,
			ActivityName: activityName,
			ActivityID:   itoa(r.ActivityID),
			Date:         r.CreatedAt.Format("2006-01-02"),
			Status:       r.Status,
		})
	}
	c.JSON(http.StatusOK, resp)
}

// CreateAttendance is the one write any authenticated member may do:
// self check-in against an existing activity. Status is always PRESENT.
func CreateAttendance(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body CreateAttendanceRequest
	if err := c.ShouldBindJSON(&body); err != nil || body.ActivityID == "" {
		jsonError(c, http.StatusBadRequest, "Pilih kegiatan.")
		return
	}
	activityID64, err := strconv.ParseUint(body.ActivityID, 10, 64)
	if err != nil {
		jsonError(c, http.StatusBadRequest, "Pilih kegiatan.")
		return
	}

	var activity Activity
	if err := DB.First(&activity, uint(activityID64)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Kegiatan tidak ditemukan.")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	record := AttendanceRecord{
		UserID:     userID,
		ActivityID: activity.ID,
		Status:     AttendancePresent,
	}
	if err := DB.Create(&record).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "could not record attendance: "+err.Error())
		return
	}

	memberName := strings.TrimSpace(body.MemberName)
	if memberName == "" {
		memberName = getUserNameFromContext(c)
	}

	c.JSON(http.StatusCreated, AttendanceResponse{
		ID:           itoa(record.ID),
		MemberName:   memberName,
		ActivityName: activity.Title,
		ActivityID:   itoa(activity.ID),
		Date:         record.CreatedAt.Format("2006-01-02"),
		Status:       AttendancePresent,
	})
}

// -----------------------------
// Club profile & org chart
// -----------------------------

type UpdateProfileRequest struct {
	History *string  `json:"history"`
	Vision  *string  `json:"vision"`
	Mission []string `json:"mission"`
}

func GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, buildProfileResponse(true))
}

func buildProfileResponse(withStructure bool) ProfileResponse {
	var profile ClubProfile
	_ = DB.First(&profile, clubProfileID).Error

	var missions []Mission
	_ = DB.Where("profile_id = ?", clubProfileID).Order("position").Find(&missions).Error

	resp := ProfileResponse{
		History: profile.History,
		Vision:  profile.Vision,
		Mission: make([]string, 0, len(missions)),
	}
	for _, m := range missions {
		resp.Mission = append(resp.Mission, m.Text)
	}

	if withStructure {
		var members []OrganizationMember
		_ = DB.Where("profile_id = ?", clubProfileID).Order("id").Find(&members).Error
		resp.Structure = make([]StructureResponse, 0, len(members))
		for _, m := range members {
			resp.Structure = append(resp.Structure, toStructureResponse(m))
		}
	}
	return resp
}

// UpdateProfile patches history/vision in place. When a mission array
// is supplied the stored ordered list is deleted and reinserted with
// fresh positions — a full replace, never a diff.
func UpdateProfile(c *gin.Context) {
	var body UpdateProfileRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if body.History != nil {
			if err := tx.Model(&ClubProfile{}).Where("id = ?", clubProfileID).
				Update("history", *body.History).Error; err != nil {
				return err
			}
		}
		if body.Vision != nil {
			if err := tx.Model(&ClubProfile{}).Where("id = ?", clubProfileID).
				Update("vision", *body.Vision).Error; err != nil {
				return err
			}
		}
		if body.Mission != nil {
			if err := tx.Where("profile_id = ?", clubProfileID).Delete(&Mission{}).Error; err != nil {
				return err
			}
			for i, text := range body.Mission {
				mission := Mission{ProfileID: clubProfileID, Position: i, Text: text}
				if err := tx.Create(&mission).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "could not update profile: "+err.Error())
		return
	}

	// The patch response carries no structure key; only GET returns the
	// org chart.
	resp := buildProfileResponse(false)
	c.JSON(http.StatusOK, gin.H{
		"history": resp.History,
		"vision":  resp.Vision,
		"mission": resp.Mission,
	})
}

// UpsertStructureMember creates or updates one org-chart node. When an
// id is supplied and the row exists it is updated in place; the photo
// is only replaced when a new file was uploaded.
func UpsertStructureMember(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	role := strings.TrimSpace(c.PostForm("role"))
	if name == "" {
		jsonError(c, http.StatusBadRequest, "Nama wajib.")
		return
	}

	var parentID *uint
	if raw := strings.TrimSpace(c.PostForm("parentId")); raw != "" {
		pid64, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			jsonError(c, http.StatusBadRequest, "invalid parentId")
			return
		}
		pid := uint(pid64)
		parentID = &pid
	}

	photo, err := SaveUpload(c, "photo")
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	if raw := strings.TrimSpace(c.PostForm("id")); raw != "" {
		id64, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			jsonError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var existing OrganizationMember
		if err := DB.First(&existing, uint(id64)).Error; err == nil {
			updates := map[string]interface{}{
				"name":      name,
				"role":      role,
				"parent_id": parentID,
			}
			oldPhoto := ""
			if photo != "" {
				oldPhoto = existing.PhotoPath
				updates["photo_path"] = photo
			}
			if err := DB.Model(&existing).Updates(updates).Error; err != nil {
				RemoveUpload(photo)
				jsonError(c, http.StatusInternalServerError, "could not update member: "+err.Error())
				return
			}
			if photo != "" {
				existing.PhotoPath = photo
				RemoveUpload(oldPhoto)
			}
			existing.Name = name
			existing.Role = role
			existing.ParentID = parentID
			c.JSON(http.StatusOK, toStructureResponse(existing))
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			RemoveUpload(photo)
			jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
			return
		}
	}

	member := OrganizationMember{
		ProfileID: clubProfileID,
		Name:      name,
		Role:      role,
		ParentID:  parentID,
		PhotoPath: photo,
	}
	if err := DB.Create(&member).Error; err != nil {
		RemoveUpload(photo)
		jsonError(c, http.StatusInternalServerError, "could not create member: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, toStructureResponse(member))
}

func DeleteStructureMember(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var member OrganizationMember
	if err := DB.First(&member, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	if err := DB.Delete(&OrganizationMember{}, id).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "delete failed: "+err.Error())
		return
	}
	RemoveUpload(member.PhotoPath)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// -----------------------------
// Achievements
// -----------------------------

// UpsertAchievement mirrors the org-chart write: update in place when an
// id is supplied and found, insert otherwise.
func UpsertAchievement(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		jsonError(c, http.StatusBadRequest, "Judul wajib.")
		return
	}
	year := strings.TrimSpace(c.PostForm("year"))
	description := c.PostForm("description")

	photo, err := SaveUpload(c, "photo")
	if err != nil {
		jsonError(c, http.StatusBadRequest, err.Error())
		return
	}

	if raw := strings.TrimSpace(c.PostForm("id")); raw != "" {
		id64, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			jsonError(c, http.StatusBadRequest, "invalid id")
			return
		}

		var existing Achievement
		if err := DB.First(&existing, uint(id64)).Error; err == nil {
			updates := map[string]interface{}{
				"title":       title,
				"year":        year,
				"description": description,
			}
			oldPhoto := ""
			if photo != "" {
				oldPhoto = existing.PhotoPath
				updates["photo_path"] = photo
			}
			if err := DB.Model(&existing).Updates(updates).Error; err != nil {
				RemoveUpload(photo)
				jsonError(c, http.StatusInternalServerError, "could not update achievement: "+err.Error())
				return
			}
			if photo != "" {
				existing.PhotoPath = photo
				RemoveUpload(oldPhoto)
			}
			existing.Title = title
			existing.Year = year
			existing.Description = description
			c.JSON(http.StatusOK, toAchievementResponse(existing))
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			RemoveUpload(photo)
			jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
			return
		}
	}

	achievement := Achievement{
		Title:       title,
		Year:        year,
		Description: description,
		PhotoPath:   photo,
		CreatedBy:   userID,
	}
	if err := DB.Create(&achievement).Error; err != nil {
		RemoveUpload(photo)
		jsonError(c, http.StatusInternalServerError, "could not create achievement: "+err.Error())
		return
	}

	c.JSON(http.StatusCreated, toAchievementResponse(achievement))
}

func GetAchievements(c *gin.Context) {
	var achievements []Achievement
	if err := DB.Order("id desc").Find(&achievements).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	resp := make([]AchievementResponse, 0, len(achievements))
	for _, a := range achievements {
		resp = append(resp, toAchievementResponse(a))
	}
	c.JSON(http.StatusOK, resp)
}

func DeleteAchievement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var achievement Achievement
	if err := DB.First(&achievement, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			jsonError(c, http.StatusNotFound, "Not found")
			return
		}
		jsonError(c, http.StatusInternalServerError, "db error: "+err.Error())
		return
	}

	if err := DB.Delete(&Achievement{}, id).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "delete failed: "+err.Error())
		return
	}
	RemoveUpload(achievement.PhotoPath)

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
