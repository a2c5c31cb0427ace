package emailsvc

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/mail"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studymate/core"
	testutil "github.com/trezcool/studymate/tests"
)

func TestConsoleService(t *testing.T) {
	conf := testutil.Config()
	conf.AppName = "StudyMate"
	conf.DefaultFromEmail = mail.Address{Name: "StudyMate", Address: "noreply@studymate.test"}
	logger := &testutil.MemLogger{}

	var out bytes.Buffer
	svc := NewConsoleServiceMock(conf, logger)
	svc.out = &out

	svc.SendMessages(
		&core.EmailMessage{
			To:      []mail.Address{{Name: "Alice", Address: "alice@test.cd"}},
			Subject: "Hello",
			BodyStr: "hello alice",
		},
		&core.EmailMessage{Subject: "no recipients", BodyStr: "lost"},
		&core.EmailMessage{To: []mail.Address{{Address: "bob@test.cd"}}, Subject: "no content"},
	)

	sent := svc.SentMessages()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello alice", sent[0].TextContent)

	s := out.String()
	assert.Contains(t, s, `From: "StudyMate" <noreply@studymate.test>`)
	assert.Contains(t, s, "Subject: [StudyMate] Hello")
	assert.Contains(t, s, `To: "Alice" <alice@test.cd>`)
	assert.Contains(t, s, "hello alice")
	assert.NotContains(t, s, "text/html")
	assert.Empty(t, logger.Messages)
}

func TestSendgridService(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, endpoint, r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))

		body, _ := io.ReadAll(r.Body)
		var payload map[string]interface{}
		_ = json.Unmarshal(body, &payload)
		w.WriteHeader(http.StatusAccepted)
		received <- payload
	}))
	defer srv.Close()

	defer func(h string) { host = h }(host)
	host = srv.URL

	conf := testutil.Config()
	conf.AppName = "StudyMate"
	conf.SendgridAPIKey = "sg-key"
	conf.DefaultFromEmail = mail.Address{Name: "StudyMate", Address: "noreply@studymate.test"}
	logger := &testutil.MemLogger{}
	svc := NewSendgridService(conf, logger)

	svc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: "Alice", Address: "alice@test.cd"}},
		Subject: "Hello",
		BodyStr: "hello alice",
	})

	select {
	case payload := <-received:
		from := payload["from"].(map[string]interface{})
		assert.Equal(t, "noreply@studymate.test", from["email"])

		pers := payload["personalizations"].([]interface{})[0].(map[string]interface{})
		assert.Equal(t, "[StudyMate] Hello", pers["subject"])

		contents := payload["content"].([]interface{})
		require.Len(t, contents, 1)
		assert.Equal(t, "text/plain", contents[0].(map[string]interface{})["type"])
	case <-time.After(5 * time.Second):
		t.Fatal("sendgrid was never called")
	}
	assert.False(t, logger.Contains("error", "sending email"))
}
