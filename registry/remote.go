package registry

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/st-keller/bindutil/module"
)

// maxNamespaceBytes caps a remote namespace document.
const maxNamespaceBytes = 8 << 20

// RemoteLoader returns a Loader that fetches the namespace of name from
// baseURL + "/modules/" + name. The body is a JSON object, or a msgpack map
// when the response is served as application/msgpack.
func RemoteLoader(client *http.Client, baseURL, name string) Loader {
	return func() (*module.Module, error) {
		if client == nil {
			return nil, fmt.Errorf("http client required")
		}

		endpoint := strings.TrimRight(baseURL, "/") + "/modules/" + url.PathEscape(name)

		resp, err := client.Get(endpoint)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		body, err := io.ReadAll(io.LimitReader(resp.Body, maxNamespaceBytes))
		if err != nil {
			return nil, fmt.Errorf("failed to read namespace: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}

		namespace, err := decodeNamespace(resp.Header.Get("Content-Type"), body)
		if err != nil {
			return nil, err
		}

		return module.New(name, namespace), nil
	}
}

// decodeNamespace decodes body according to contentType (JSON unless msgpack).
func decodeNamespace(contentType string, body []byte) (map[string]any, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)

	var namespace map[string]any
	switch mediaType {
	case "application/msgpack", "application/x-msgpack":
		if err := msgpack.Unmarshal(body, &namespace); err != nil {
			return nil, fmt.Errorf("failed to decode msgpack namespace: %w", err)
		}
	default:
		if err := json.Unmarshal(body, &namespace); err != nil {
			return nil, fmt.Errorf("failed to decode JSON namespace: %w", err)
		}
	}

	if namespace == nil {
		return nil, fmt.Errorf("namespace must be an object")
	}
	return namespace, nil
}
