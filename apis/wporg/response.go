// ABOUTME: Version-dependent response encoding for the plugins_api endpoint.
// ABOUTME: Version 1.0 gets PHP serialize() output, every other version JSON.

package wporg

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"

	apierrors "github.com/2389/wpish/internal/errors"
	"github.com/2389/wpish/internal/phpserial"
)

const legacyVersion = "1.0"

// notImplementedMessage is returned verbatim, trailing `";}` included.
const notImplementedMessage = `Action not implemented. <a href="https://codex.wordpress.org/WordPress.org_API">API Docs</a>";}`

func notImplemented() map[string]any {
	return map[string]any{"error": notImplementedMessage}
}

func formatFor(version string) string {
	if version == legacyVersion {
		return "legacy"
	}
	return "json"
}

// encodeResponse renders data for the requested API version and returns
// the body and its content type. An empty content type means none is set.
func encodeResponse(version string, data any) ([]byte, string, error) {
	if version == legacyVersion {
		body, err := phpserial.Marshal(asObject(data))
		return body, "", err
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return nil, "", err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), "application/json", nil
}

// asObject applies the stdClass conversion the legacy format is built on:
// values that know their stdClass form convert themselves, maps become
// objects, everything else is wrapped in a "scalar" property.
func asObject(data any) any {
	switch v := data.(type) {
	case phpserial.StdClasser:
		return v.ToStdClass()
	case *phpserial.Object:
		return v
	case map[string]any:
		return phpserial.ObjectFromMap(v)
	case nil:
		return phpserial.NewStdClass()
	}
	return phpserial.NewStdClass().Set("scalar", data)
}

func sendResponse(w http.ResponseWriter, version string, data any, status int) {
	body, contentType, err := encodeResponse(version, data)
	if err != nil {
		log.Printf("Failed to encode plugins_api response (version %q): %v", version, err)
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrInternal, "Failed to encode response")
		return
	}

	if contentType != "" {
		w.Header().Set("Content-Type", contentType)
	}
	w.WriteHeader(status)
	w.Write(body)
}
