/*
 Copyright (c) 2025 Arenadata Softwer LLC.
 Licensed under the Apache License, Version 2.0 (the "License");
 you may not use this file except in compliance with the License.
 You may obtain a copy of the License at

     http://www.apache.org/licenses/LICENSE-2.0

 Unless required by applicable law or agreed to in writing, software
 distributed under the License is distributed on an "AS IS" BASIS,
 WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 See the License for the specific language governing permissions and
 limitations under the License.
*/

package composer

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arenadata/agent-setup/pkg/envfile"
	"github.com/arenadata/agent-setup/pkg/interactive"
	"github.com/arenadata/agent-setup/pkg/secrets"
	"github.com/arenadata/agent-setup/pkg/source"
	"github.com/arenadata/agent-setup/pkg/utils"

	"github.com/bmizerany/assert"
)

const (
	cfgPath   = "/home/agent/.n8n/config"
	n8nHeader = "n8n Environment Configuration"
)

type failingSource struct{}

func (failingSource) Read(string) (string, bool, error) {
	return "", false, errors.New("permission denied")
}

func newComposer(t *testing.T, src source.Provider, asker interactive.Asker, opts ...Option) *Composer {
	t.Helper()

	opts = append([]Option{WithSource(cfgPath, source.KeyLocator{Format: source.FormatAuto})}, opts...)
	c, err := New(src, asker, opts...)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestCompose_ExistingKeyDeclineAll(t *testing.T) {
	src := source.Map{cfgPath: `{"encryptionKey":"abc123"}`}

	t.Run("WithoutHeader", func(t *testing.T) {
		script := interactive.NewScript("n", "n")
		p, err := newComposer(t, src, script).Compose()
		assert.Equal(t, nil, err)
		assert.Equal(t, "N8N_ENCRYPTION_KEY=abc123\n", p.Render())
		assert.Equal(t, 0, script.Remaining())
	})

	t.Run("WithHeader", func(t *testing.T) {
		script := interactive.NewScript("n", "n")
		p, err := newComposer(t, src, script, WithHeader(n8nHeader)).Compose()
		assert.Equal(t, nil, err)
		assert.Equal(t, "# n8n Environment Configuration\nN8N_ENCRYPTION_KEY=abc123\n", p.Render())
	})
}

func TestCompose_APIKeys(t *testing.T) {
	src := source.Map{cfgPath: `{"encryptionKey":"abc123"}`}
	script := interactive.NewScript("n", "y", "FOO=1, BAR=2, BROKEN")

	p, err := newComposer(t, src, script).Compose()
	assert.Equal(t, nil, err)

	out := p.Render()
	assert.Equal(t, "N8N_ENCRYPTION_KEY=abc123\nFOO=1\nBAR=2\n", out)
	assert.Equal(t, false, strings.Contains(out, "BROKEN"))
}

func TestCompose_Database(t *testing.T) {
	src := source.Map{cfgPath: "N8N_ENCRYPTION_KEY=abc123\n"}

	tests := []struct {
		name    string
		answers []string
		want    string
	}{
		{
			"PostgresDefaults",
			[]string{"y", "PostgreSQL", "", "", "n8n", "admin", "s3cret", "n"},
			"N8N_ENCRYPTION_KEY=abc123\n" +
				"DB_TYPE=postgresqldb\n" +
				"DB_POSTGRESDB_HOST=localhost\n" +
				"DB_POSTGRESDB_PORT=5432\n" +
				"DB_POSTGRESDB_DATABASE=n8n\n" +
				"DB_POSTGRESDB_USER=admin\n" +
				"DB_POSTGRESDB_PASSWORD=s3cret\n",
		},
		{
			"MySQLCustom",
			[]string{"y", "MySQL", "db.local", "3307", "n8n", "root", "", "n"},
			"N8N_ENCRYPTION_KEY=abc123\n" +
				"DB_TYPE=mysqldb\n" +
				"DB_MYSQL_HOST=db.local\n" +
				"DB_MYSQL_PORT=3307\n" +
				"DB_MYSQL_DATABASE=n8n\n" +
				"DB_MYSQL_USER=root\n" +
				"DB_MYSQL_PASSWORD=\n",
		},
		{
			"MySQLDefaultPort",
			[]string{"y", "3", "", "", "", "", "", "n"},
			"N8N_ENCRYPTION_KEY=abc123\n" +
				"DB_TYPE=mysqldb\n" +
				"DB_MYSQL_HOST=localhost\n" +
				"DB_MYSQL_PORT=3306\n" +
				"DB_MYSQL_DATABASE=\n" +
				"DB_MYSQL_USER=\n" +
				"DB_MYSQL_PASSWORD=\n",
		},
		{
			"DefaultEngine",
			[]string{"y", "", "n"},
			"N8N_ENCRYPTION_KEY=abc123\n",
		},
		{
			"DatabaseAndAPIKeys",
			[]string{"y", "PostgreSQL", "pg", "6432", "n8n", "u", "p", "y", "OPENAI_API_KEY=sk-1"},
			"N8N_ENCRYPTION_KEY=abc123\n" +
				"DB_TYPE=postgresqldb\n" +
				"DB_POSTGRESDB_HOST=pg\n" +
				"DB_POSTGRESDB_PORT=6432\n" +
				"DB_POSTGRESDB_DATABASE=n8n\n" +
				"DB_POSTGRESDB_USER=u\n" +
				"DB_POSTGRESDB_PASSWORD=p\n" +
				"OPENAI_API_KEY=sk-1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := interactive.NewScript(tt.answers...)
			p, err := newComposer(t, src, script).Compose()
			assert.Equal(t, nil, err)
			assert.Equal(t, tt.want, p.Render())
			assert.Equal(t, 0, script.Remaining())
		})
	}
}

func TestCompose_InterruptedSection(t *testing.T) {
	src := source.Map{cfgPath: `{"encryptionKey":"abc123"}`}
	script := interactive.NewScript("y", "PostgreSQL", "host")

	p, err := newComposer(t, src, script).Compose()
	assert.Equal(t, true, errors.Is(err, io.EOF))
	assert.Equal(t, (*envfile.Payload)(nil), p)
}

func TestResolveEncryptionKey(t *testing.T) {
	tests := []struct {
		name      string
		src       source.Provider
		policy    Policy
		answers   []string
		want      string
		reason    Reason
		isMissing bool
	}{
		{"JSON", source.Map{cfgPath: `{"encryptionKey":"k/+=="}`}, PolicyStrict, nil, "k/+==", "", false},
		{"Dotenv", source.Map{cfgPath: "N8N_ENCRYPTION_KEY=k1\n"}, PolicyStrict, nil, "k1", "", false},
		{"StrictAbsent", source.Map{}, PolicyStrict, nil, "", ReasonMissing, true},
		{"StrictNoKey", source.Map{cfgPath: `{"other":"x"}`}, PolicyStrict, nil, "", ReasonNoKey, true},
		{"StrictMalformed", source.Map{cfgPath: `{"encryptionKey":`}, PolicyStrict, nil, "", ReasonMalformed, false},
		{"PermissiveMalformed", source.Map{cfgPath: `{"encryptionKey":`}, PolicyPermissive, []string{"typed"}, "", ReasonMalformed, false},
		{"ReadFailure", failingSource{}, PolicyPermissive, []string{"typed"}, "", ReasonMalformed, false},
		{"PermissiveAbsentTyped", source.Map{}, PolicyPermissive, []string{"typed"}, "typed", "", false},
		{"PermissiveNoKeyTyped", source.Map{cfgPath: "OTHER=1\n"}, PolicyPermissive, []string{"typed"}, "typed", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script := interactive.NewScript(tt.answers...)
			c := newComposer(t, tt.src, script, WithPolicy(tt.policy))

			got, err := c.ResolveEncryptionKey(cfgPath)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.isMissing, errors.Is(err, ErrMissingKey))

			var readErr *ConfigReadError
			if len(tt.reason) == 0 {
				assert.Equal(t, nil, err)
				return
			}
			assert.Equal(t, true, errors.As(err, &readErr))
			assert.Equal(t, tt.reason, readErr.Reason)
			assert.Equal(t, cfgPath, readErr.Path)
			assert.Equal(t, 0, len(script.Asked()))
		})
	}
}

func TestResolveEncryptionKey_ReportsFoundKey(t *testing.T) {
	var out strings.Builder
	src := source.Map{cfgPath: `{"encryptionKey":"abc123"}`}
	c := newComposer(t, src, interactive.NewScript(), WithOutput(&out))

	got, err := c.ResolveEncryptionKey(cfgPath)
	assert.Equal(t, nil, err)
	assert.Equal(t, "abc123", got)
	assert.Equal(t, "Found existing N8N_ENCRYPTION_KEY in "+cfgPath+".\n", out.String())

	out.Reset()
	c = newComposer(t, source.Map{}, interactive.NewScript(), WithOutput(&out))
	_, err = c.ResolveEncryptionKey(cfgPath)
	assert.NotEqual(t, nil, err)
	assert.Equal(t, "", out.String())
}

func TestConfigReadError_Message(t *testing.T) {
	err := &ConfigReadError{Path: cfgPath, Reason: ReasonMissing, Err: ErrMissingKey}
	assert.Equal(t, true, strings.HasPrefix(err.Error(), "config file not found at "+cfgPath))
	assert.Equal(t, true, strings.Contains(err.Error(), "Please run n8n at least once"))

	err = &ConfigReadError{Path: cfgPath, Reason: ReasonMalformed, Err: errors.New("boom")}
	assert.Equal(t, "read or parse "+cfgPath+": boom", err.Error())
}

func TestResolveEncryptionKey_PermissiveGenerates(t *testing.T) {
	script := interactive.NewScript("")
	c := newComposer(t, source.Map{}, script, WithPolicy(PolicyPermissive), WithKeyLength(24))

	got, err := c.ResolveEncryptionKey(cfgPath)
	assert.Equal(t, nil, err)
	assert.Equal(t, 24, len(got))
	for _, r := range got {
		assert.Equal(t, true, strings.ContainsRune(utils.Alphanumeric, r))
	}
	assert.Equal(t, []string{msgKeyMissing}, script.Asked())
}

func TestParseAPIKeys(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		want    []envfile.Entry
		dropped []string
	}{
		{"Empty", "", nil, nil},
		{"Single", "OPENAI_API_KEY=sk-1", []envfile.Entry{{Key: "OPENAI_API_KEY", Value: "sk-1"}}, nil},
		{"Mixed", "FOO=1, BAR=2, BROKEN", []envfile.Entry{{Key: "FOO", Value: "1"}, {Key: "BAR", Value: "2"}}, []string{"BROKEN"}},
		{"OnlyBroken", "A, B", nil, []string{"A", "B"}},
		{"ValueWithSeparator", "TOKEN=a=b", []envfile.Entry{{Key: "TOKEN", Value: "a=b"}}, nil},
		{"InnerSpacesKept", "  KEY = v  ,", []envfile.Entry{{Key: "KEY ", Value: " v"}}, nil},
		{"EmptyValue", "EMPTY=", []envfile.Entry{{Key: "EMPTY", Value: ""}}, nil},
		{"Order", "Z=1,A=2,M=3", []envfile.Entry{{Key: "Z", Value: "1"}, {Key: "A", Value: "2"}, {Key: "M", Value: "3"}}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, dropped := ParseAPIKeys(tt.line)
			assert.Equal(t, tt.want, got)

			var pairs []string
			for _, d := range dropped {
				pairs = append(pairs, d.Pair)
			}
			assert.Equal(t, tt.dropped, pairs)
		})
	}
}

func TestParseAPIKeys_Verbatim(t *testing.T) {
	line := " FOO=1 ,BAR = two,  broken ,URL=https://x.io/?a=b "
	entries, _ := ParseAPIKeys(line)

	var rendered []string
	for _, e := range entries {
		rendered = append(rendered, e.String())
	}

	var want []string
	for _, pair := range strings.Split(line, ",") {
		pair = strings.TrimSpace(pair)
		if strings.Contains(pair, "=") {
			want = append(want, pair)
		}
	}
	assert.Equal(t, want, rendered)
}

func TestComposeSingle(t *testing.T) {
	c := newComposer(t, source.Map{}, interactive.NewScript("sk-123"))
	p, err := c.ComposeSingle("OPENAI_API_KEY", "Please enter your OpenAI API Key:", false, false)
	assert.Equal(t, nil, err)
	assert.Equal(t, "OPENAI_API_KEY=sk-123\n", p.Render())

	c = newComposer(t, source.Map{}, interactive.NewScript(""))
	_, err = c.ComposeSingle("OPENAI_API_KEY", "Please enter your OpenAI API Key:", false, false)
	assert.Equal(t, true, errors.Is(err, ErrEmptyAnswer))
}

func TestComposeSingle_Required(t *testing.T) {
	s := interactive.NewScript("", "", "vs-key")
	c := newComposer(t, source.Map{}, s)

	p, err := c.ComposeSingle("API_KEY", "Please enter your API Key:", true, true)
	assert.Equal(t, nil, err)
	assert.Equal(t, "API_KEY=vs-key\n", p.Render())
	assert.Equal(t, 3, len(s.Asked()))

	c = newComposer(t, source.Map{}, interactive.NewScript(""))
	_, err = c.ComposeSingle("API_KEY", "Please enter your API Key:", true, true)
	assert.Equal(t, true, errors.Is(err, io.EOF))
}

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, envfile.FileName)
	assert.Equal(t, nil, os.WriteFile(path, []byte("STALE=1\n"), 0600))

	p := envfile.New()
	p.Set("N8N_ENCRYPTION_KEY", "abc123")

	c := newComposer(t, source.Map{}, interactive.NewScript())
	written, err := c.Write(path, p)
	assert.Equal(t, nil, err)
	assert.Equal(t, path, written)

	b, err := os.ReadFile(path)
	assert.Equal(t, nil, err)
	assert.Equal(t, "N8N_ENCRYPTION_KEY=abc123\n", string(b))
}

func TestWrite_Encrypted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, envfile.FileName)

	id, err := secrets.NewAgeCrypt()
	assert.Equal(t, nil, err)

	p := envfile.New()
	p.Set("N8N_ENCRYPTION_KEY", "abc123")

	c := newComposer(t, source.Map{}, interactive.NewScript(), WithRecipients(id.Recipient().String()))
	written, err := c.Write(path, p)
	assert.Equal(t, nil, err)
	assert.Equal(t, path+secrets.EncryptedExt, written)

	_, err = os.Stat(path)
	assert.Equal(t, true, os.IsNotExist(err))

	b, err := os.ReadFile(written)
	assert.Equal(t, nil, err)

	dec, err := id.Decrypt(string(b))
	assert.Equal(t, nil, err)
	assert.Equal(t, p.Render(), dec)
}

func TestNew_Options(t *testing.T) {
	_, err := New(source.Map{}, interactive.NewScript(), WithPolicy("lenient"))
	assert.NotEqual(t, nil, err)

	_, err = New(source.Map{}, interactive.NewScript(), WithKeyName(""))
	assert.NotEqual(t, nil, err)

	_, err = New(nil, interactive.NewScript())
	assert.NotEqual(t, nil, err)

	_, err = New(source.Map{}, nil)
	assert.NotEqual(t, nil, err)
}
