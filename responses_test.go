package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUploadURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.test")

	assert.Equal(t, "", uploadURL(""))
	assert.Equal(t, "http://api.test/uploads/foto.jpg", uploadURL("foto.jpg"))

	// already-absolute URLs pass through unchanged
	assert.Equal(t, "https://youtube.com/watch?v=abc", uploadURL("https://youtube.com/watch?v=abc"))
	assert.Equal(t, "http://cdn.example.com/x.pdf", uploadURL("http://cdn.example.com/x.pdf"))
}

func TestUploadURLTrimsTrailingSlash(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.test/")

	assert.Equal(t, "http://api.test/uploads/foto.jpg", uploadURL("foto.jpg"))
}

func TestUploadURLDefaultsToLocalhost(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("PORT", "4000")

	assert.Equal(t, "http://localhost:4000/uploads/foto.jpg", uploadURL("foto.jpg"))
}

func TestToLearningResponsePrefersExternalURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://api.test")

	withLink := LearningMaterial{ID: 1, Title: "Video", Type: MaterialVideo, ExternalURL: "https://youtube.com/v"}
	assert.Equal(t, "https://youtube.com/v", toLearningResponse(withLink).URL)

	withFile := LearningMaterial{ID: 2, Title: "Modul", Type: MaterialPDF, FilePath: "modul.pdf"}
	assert.Equal(t, "http://api.test/uploads/modul.pdf", toLearningResponse(withFile).URL)
}

func TestToStructureResponseParentID(t *testing.T) {
	root := OrganizationMember{ID: 1, Name: "Ketua"}
	assert.Empty(t, toStructureResponse(root).ParentID)

	parent := uint(1)
	child := OrganizationMember{ID: 2, Name: "Sekretaris", ParentID: &parent}
	assert.Equal(t, "1", toStructureResponse(child).ParentID)
}

func TestToUserResponseHidesEmptyAvatar(t *testing.T) {
	u := User{ID: 7, Name: "Budi", Email: "budi@x.com", Role: RoleAnggota}
	resp := toUserResponse(u)
	assert.Equal(t, "7", resp.ID)
	assert.Empty(t, resp.Avatar)
}
