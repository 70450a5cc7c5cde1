package main

import (
	"bytes"
	"encoding/pem"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/st-keller/bindutil/pkgpath"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func certPEM(srv *httptest.Server) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: srv.Certificate().Raw})
}

func TestFindConfigCmd(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "runtime", "cmake")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, pkgpath.DefaultConfigFile), nil, 0o644))

	out, err := run(t, "find-config", root)
	require.NoError(t, err)
	assert.Equal(t, dir+"\n", out)

	_, err = run(t, "find-config", root, "Other.cmake")
	assert.ErrorContains(t, err, "not found")
}

func TestLibDirsCmd(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "libs"), 0o755))

	out, err := run(t, "lib-dirs", root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "libs")+"\n", out)
}

func TestAttrsCmd_NoSource(t *testing.T) {
	t.Setenv("BINDUTIL_MODULE_URL", "")

	_, err := run(t, "attrs", "openvino.runtime")
	assert.ErrorContains(t, err, "no module source")
}

func TestAttrsCmd(t *testing.T) {
	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/modules/openvino.runtime") {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"compile_model":1,"Core":2}`))
	}))
	srv.EnableHTTP2 = true
	srv.StartTLS()
	t.Cleanup(srv.Close)

	caPath := filepath.Join(t.TempDir(), "ca.cert.pem")
	require.NoError(t, os.WriteFile(caPath, certPEM(srv), 0o600))

	t.Run("flags", func(t *testing.T) {
		out, err := run(t, "attrs", "openvino.runtime", "--url", srv.URL, "--ca", caPath, "--log-level", "error")
		require.NoError(t, err)
		assert.Equal(t, "Core\ncompile_model\n", out)
	})

	t.Run("module listed in config", func(t *testing.T) {
		t.Setenv("BINDUTIL_MODULE_URL", "")
		cfgPath := filepath.Join(t.TempDir(), "bindutil.yaml")
		body := "log_level: error\nmodule_url: " + srv.URL + "\nca_path: " + caPath + "\nmodules: [openvino.runtime]\n"
		require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

		out, err := run(t, "attrs", "openvino.runtime", "--config", cfgPath)
		require.NoError(t, err)
		assert.Equal(t, "Core\ncompile_model\n", out)
	})
}
