package registry

import (
	"crypto/x509"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/st-keller/bindutil/transport"
)

func newModuleServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/modules/pkg.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Version":"2.0","Core":"runtime","proto":"` + r.Proto + `"}`))
	})
	mux.HandleFunc("/modules/pkg.msgpack", func(w http.ResponseWriter, r *http.Request) {
		body, err := msgpack.Marshal(map[string]any{"Tensor": "type", "Shape": "type"})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/msgpack")
		_, _ = w.Write(body)
	})
	mux.HandleFunc("/modules/pkg.array", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`null`))
	})

	srv := httptest.NewUnstartedServer(mux)
	srv.EnableHTTP2 = true
	srv.StartTLS()
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *http.Client {
	t.Helper()

	pool := x509.NewCertPool()
	pool.AddCert(srv.Certificate())

	client, err := transport.BuildHTTP2Client(transport.Options{RootCAs: pool})
	require.NoError(t, err)
	t.Cleanup(client.CloseIdleConnections)
	return client
}

func TestRemoteLoader_JSON(t *testing.T) {
	srv := newModuleServer(t)
	client := newClient(t, srv)

	m, err := RemoteLoader(client, srv.URL+"/", "pkg.json")()
	require.NoError(t, err)

	assert.Equal(t, "pkg.json", m.Name())
	assert.Equal(t, []string{"Core", "Version", "proto"}, m.Names())

	proto, err := m.Attr("proto")
	require.NoError(t, err)
	assert.Equal(t, "HTTP/2.0", proto)
}

func TestRemoteLoader_Msgpack(t *testing.T) {
	srv := newModuleServer(t)
	client := newClient(t, srv)

	m, err := RemoteLoader(client, srv.URL, "pkg.msgpack")()
	require.NoError(t, err)
	assert.Equal(t, []string{"Shape", "Tensor"}, m.Names())
}

func TestRemoteLoader_Errors(t *testing.T) {
	srv := newModuleServer(t)
	client := newClient(t, srv)

	_, err := RemoteLoader(client, srv.URL, "pkg.missing")()
	assert.ErrorContains(t, err, "HTTP 404")

	_, err = RemoteLoader(client, srv.URL, "pkg.array")()
	assert.ErrorContains(t, err, "namespace must be an object")

	_, err = RemoteLoader(nil, srv.URL, "pkg.json")()
	assert.Error(t, err)
}

func TestRemoteLoader_ThroughRegistry(t *testing.T) {
	srv := newModuleServer(t)
	client := newClient(t, srv)

	r := New()
	require.NoError(t, r.Register("pkg.json", RemoteLoader(client, srv.URL, "pkg.json")))

	m, err := r.Import("pkg.json")
	require.NoError(t, err)
	again, err := r.Import("pkg.json")
	require.NoError(t, err)

	assert.Same(t, m, again)
	assert.Equal(t, 1, r.ImportCount("pkg.json"))
}
