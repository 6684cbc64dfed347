package workspace

import (
	"image"
	"image/jpeg"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/huddle-work/huddle/internal/store"
)

// UploadPhoto fetches a JPEG from a URL, crops it to the given box and
// stores it as the caller's avatar. Coordinates are pixels from the top
// left; the box must be non-empty and lie within the image.
func (s *Service) UploadPhoto(token, imgURL string, xStart, yStart, xEnd, yEnd int) error {
	if xStart < 0 || yStart < 0 || xEnd <= xStart || yEnd <= yStart {
		return validationf("crop bounds are not a valid box")
	}

	var userID int
	err := s.store.View(func(d *store.Data) error {
		u := s.sessionUser(d, token)
		if u == nil {
			return authorizationf("invalid token")
		}
		userID = u.ID
		return nil
	})
	if err != nil {
		return err
	}

	resp, err := http.Get(imgURL)
	if err != nil {
		return validationf("image could not be fetched")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return validationf("image could not be fetched")
	}

	img, err := jpeg.Decode(resp.Body)
	if err != nil {
		return validationf("image is not a valid jpeg")
	}
	bounds := img.Bounds()
	if xEnd > bounds.Dx() || yEnd > bounds.Dy() {
		return validationf("crop bounds exceed the image dimensions")
	}

	type subImager interface {
		SubImage(image.Rectangle) image.Image
	}
	si, ok := img.(subImager)
	if !ok {
		return validationf("image is not a valid jpeg")
	}
	box := image.Rect(bounds.Min.X+xStart, bounds.Min.Y+yStart, bounds.Min.X+xEnd, bounds.Min.Y+yEnd)
	cropped := si.SubImage(box)

	name := uuid.NewString() + ".jpg"
	if err := os.MkdirAll(s.avatarDir, 0o755); err != nil {
		return err
	}
	f, err := os.Create(filepath.Join(s.avatarDir, name))
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, cropped, nil); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return s.store.Update(func(d *store.Data) error {
		u := d.UserByID(userID)
		if u == nil || u.Removed() {
			return authorizationf("invalid token")
		}
		u.AvatarURL = s.baseURL + "/static/" + name
		return nil
	})
}
