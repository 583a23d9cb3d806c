package storage_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/storage"
	"gotest.tools/v3/assert"
)

func testSuite(t *testing.T, driver storage.Driver) {
	fileName := "loads/" + uuid.NewString() + "/pod.pdf"
	fileContents := uuid.NewString()

	{ // Not there yet
		found, err := driver.Exists(t.Context(), fileName)
		assert.NilError(t, err)
		assert.Assert(t, !found)
	}

	{ // Put
		assert.NilError(t, driver.Put(t.Context(), fileName, strings.NewReader(fileContents)))
		t.Cleanup(func() {
			_ = driver.Delete(context.Background(), fileName)
		})

		found, err := driver.Exists(t.Context(), fileName)
		assert.NilError(t, err)
		assert.Assert(t, found)
	}

	{ // Get
		reader, err := driver.Get(t.Context(), fileName)
		assert.NilError(t, err)
		defer func() {
			_ = reader.Close()
		}()

		actual, err := io.ReadAll(reader)
		assert.NilError(t, err)
		assert.Equal(t, fileContents, string(actual))
	}

	{ // Presigned links serve the object
		link, err := driver.PreSignedURL(t.Context(), fileName, time.Minute)
		assert.NilError(t, err)

		response, err := http.Get(link)
		assert.NilError(t, err)
		defer func() {
			_ = response.Body.Close()
		}()

		body, err := io.ReadAll(response.Body)
		assert.NilError(t, err)
		assert.Equal(t, http.StatusOK, response.StatusCode)
		assert.Equal(t, fileContents, string(body))
	}

	{ // Public links of private objects are refused
		link, err := driver.PublicLink(t.Context(), fileName)
		assert.NilError(t, err)

		response, err := http.Get(link)
		assert.NilError(t, err)
		_ = response.Body.Close()
		assert.Assert(t, response.StatusCode >= 400)
	}

	{ // Delete is idempotent
		assert.NilError(t, driver.Delete(t.Context(), fileName))
		assert.NilError(t, driver.Delete(t.Context(), fileName))

		found, err := driver.Exists(t.Context(), fileName)
		assert.NilError(t, err)
		assert.Assert(t, !found)
	}
}
