package handlers

import (
	"context"
	"errors"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/ngquocbao99/gash-dashboard-sub001/internal/services"
	"github.com/ngquocbao99/gash-dashboard-sub001/internal/uploader"
)

// renderServiceError converts coordinator errors into the console's JSON
// envelopes: validation and mapped remote failures carry a field-error map
// for inline rendering, everything else is an operation-level message.
func renderServiceError(c *fiber.Ctx, err error) error {
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  vErr.Fields,
		})
	}

	var upErr *services.UploadError
	if errors.As(err, &upErr) {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"message": upErr.Message,
		})
	}

	var rErr *services.RemoteError
	if errors.As(err, &rErr) {
		status := fiber.StatusBadGateway
		if rErr.Status >= 400 && rErr.Status < 500 {
			status = rErr.Status
		}
		body := fiber.Map{"message": rErr.Message}
		if len(rErr.Fields) > 0 {
			body["errors"] = rErr.Fields
		}
		return c.Status(status).JSON(body)
	}

	if errors.Is(err, services.ErrOperationInFlight) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"message": err.Error(),
		})
	}

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"message": "Could not complete the operation",
		"error":   err.Error(),
	})
}

// actorContext tags the request context with the authenticated username for
// the audit trail.
func actorContext(c *fiber.Ctx) context.Context {
	username, _ := c.Locals("username").(string)
	return services.WithActor(c.UserContext(), username)
}

// stageUpload reads one multipart file into a staged upload.
func stageUpload(header *multipart.FileHeader) (uploader.StagedFile, error) {
	file, err := header.Open()
	if err != nil {
		return uploader.StagedFile{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return uploader.StagedFile{}, err
	}
	return uploader.Stage(header.Filename, header.Header.Get("Content-Type"), data), nil
}
