package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"guild-janitor/engine"
	"guild-janitor/model"
	"guild-janitor/platform/platformtest"
	"guild-janitor/scanner"
	"guild-janitor/utils/database"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGuildID = "123456789012345678"

type fakeBot struct {
	status   model.BotStatus
	startErr error
	tokens   []string
}

func (b *fakeBot) Status() model.BotStatus { return b.status }

func (b *fakeBot) Start(ctx context.Context, token string) error {
	b.tokens = append(b.tokens, token)
	if b.startErr != nil {
		b.status = model.BotStatus{Status: model.BotError, Error: b.startErr.Error()}
		return b.startErr
	}
	b.status = model.BotStatus{Status: model.BotOnline}
	return nil
}

type harness struct {
	router *gin.Engine
	bot    *fakeBot
	fake   *platformtest.Fake
	store  *database.MemStore
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := platformtest.New()
	fake.GuildList = []model.Guild{{ID: testGuildID, Name: "Test Guild", OwnerID: "1"}}
	fake.ChannelList[testGuildID] = []model.Channel{
		{ID: "200000000000000001", GuildID: testGuildID, Name: "general", Type: model.ChannelTypeText, Position: 0},
		{ID: "200000000000000002", GuildID: testGuildID, Name: "voice", Type: model.ChannelTypeVoice, Position: 1},
		{ID: "200000000000000003", GuildID: testGuildID, Name: "spam", Type: model.ChannelTypeText, Position: 2},
	}
	fake.RoleList[testGuildID] = []model.Role{
		{ID: testGuildID, GuildID: testGuildID, Name: "@everyone", Position: 0},
		{ID: "300000000000000001", GuildID: testGuildID, Name: "mods", Position: 2},
		{ID: "300000000000000002", GuildID: testGuildID, Name: "members", Position: 1},
	}

	store := database.NewMemStore()
	syncer := scanner.NewSyncer(fake, store)
	eng := engine.New(fake, syncer, engine.NewJournal(store, nil))
	bot := &fakeBot{status: model.BotStatus{Status: model.BotOnline}}

	srv := NewServer(bot, store, syncer, eng, []string{"*"})
	return &harness{router: srv.Router(), bot: bot, fake: fake, store: store}
}

func (h *harness) do(method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestBotStatus(t *testing.T) {
	h := newHarness(t)
	h.bot.status = model.BotStatus{Status: model.BotError, Error: "invalid token"}

	w := h.do(http.MethodGet, "/api/bot/status", "")

	require.Equal(t, http.StatusOK, w.Code)
	status := decode(t, w)["status"].(map[string]any)
	assert.Equal(t, "error", status["status"])
	assert.Equal(t, "invalid token", status["error"])
}

func TestStartBotValidatesToken(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing", `{}`},
		{"too short", `{"token":"abc"}`},
		{"too long", `{"token":"` + strings.Repeat("x", 101) + `"}`},
		{"not json", `token`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/api/bot/start", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, "Invalid request", decode(t, w)["message"])
		})
	}
	assert.Empty(t, h.bot.tokens)
}

func TestStartBot(t *testing.T) {
	h := newHarness(t)
	token := strings.Repeat("t", 60)

	w := h.do(http.MethodPost, "/api/bot/start", `{"token":"`+token+`"}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Bot started successfully", body["message"])
	assert.Equal(t, string(model.BotOnline), body["status"])
	assert.Equal(t, []string{token}, h.bot.tokens)
}

func TestStartBotFailure(t *testing.T) {
	h := newHarness(t)
	h.bot.startErr = errors.New("authentication failed")

	w := h.do(http.MethodPost, "/api/bot/start", `{"token":"`+strings.Repeat("t", 60)+`"}`)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Failed to start bot", body["message"])
	assert.Equal(t, "authentication failed", body["error"])
}

func TestGuildRoutesRequireConnection(t *testing.T) {
	h := newHarness(t)
	h.bot.status = model.BotStatus{Status: model.BotOffline}

	for _, path := range []string{"/api/guilds", "/api/guilds/" + testGuildID + "/channels", "/api/guilds/" + testGuildID + "/roles"} {
		w := h.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusServiceUnavailable, w.Code, path)
		assert.Equal(t, "Bot is not connected", decode(t, w)["message"])
	}
}

func TestListGuildsSyncsFirst(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/guilds", "")

	require.Equal(t, http.StatusOK, w.Code)
	var guilds []model.Guild
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &guilds))
	require.Len(t, guilds, 1)
	assert.Equal(t, "Test Guild", guilds[0].Name)
}

func TestListChannelsOrderedByPosition(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/guilds/"+testGuildID+"/channels", "")

	require.Equal(t, http.StatusOK, w.Code)
	var channels []model.Channel
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &channels))
	require.Len(t, channels, 3)
	assert.Equal(t, "general", channels[0].Name)
	assert.Equal(t, "spam", channels[2].Name)
}

func TestListRolesByPositionDescending(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/guilds/"+testGuildID+"/roles", "")

	require.Equal(t, http.StatusOK, w.Code)
	var roles []model.Role
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &roles))
	require.Len(t, roles, 3)
	assert.Equal(t, "mods", roles[0].Name)
	assert.Equal(t, "@everyone", roles[2].Name)
}

func TestInvalidGuildID(t *testing.T) {
	h := newHarness(t)

	for _, id := range []string{"abc", "12345", "123456789012345678901", "12345678901234567x"} {
		w := h.do(http.MethodGet, "/api/guilds/"+id+"/channels", "")
		require.Equal(t, http.StatusBadRequest, w.Code, id)

		body := decode(t, w)
		assert.Equal(t, "Invalid request", body["message"])
		errs := body["errors"].([]any)
		require.Len(t, errs, 1)
		assert.Equal(t, "guildId", errs[0].(map[string]any)["field"])
	}
}

func TestDeleteChannels(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/guilds/"+testGuildID+"/delete-channels", `{"keepChannelIds":["200000000000000001"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Channels deleted successfully", body["message"])
	assert.Equal(t, true, body["success"])
	assert.EqualValues(t, 2, body["deletedCount"])
	assert.EqualValues(t, 0, body["failedCount"])
	assert.ElementsMatch(t, []string{"200000000000000002", "200000000000000003"}, h.fake.DeletedChannels)
}

func TestDeleteChannelsValidation(t *testing.T) {
	h := newHarness(t)

	tests := []struct {
		name string
		body string
	}{
		{"missing keep list", `{}`},
		{"bad id in keep list", `{"keepChannelIds":["nope"]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(http.MethodPost, "/api/guilds/"+testGuildID+"/delete-channels", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
	assert.Empty(t, h.fake.DeletedChannels)
}

func TestDeleteChannelsPlanFailure(t *testing.T) {
	h := newHarness(t)
	h.fake.FailFetchChannels = true

	w := h.do(http.MethodPost, "/api/guilds/"+testGuildID+"/delete-channels", `{"keepChannelIds":[]}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Failed to delete channels", body["message"])
	assert.Equal(t, false, body["success"])
	assert.NotEmpty(t, body["error"])
}

func TestDeleteRoles(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodPost, "/api/guilds/"+testGuildID+"/delete-roles", `{"keepRoleIds":["300000000000000001"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "Roles deleted successfully", body["message"])
	assert.EqualValues(t, 1, body["deletedCount"])
	assert.Equal(t, []string{"300000000000000002"}, h.fake.DeletedRoles)
}

func TestLogs(t *testing.T) {
	h := newHarness(t)
	for _, msg := range []string{"first", "second", "third"} {
		_, err := h.store.CreateLog(model.LogEntry{GuildID: testGuildID, Severity: model.SeverityInfo, Message: msg})
		require.NoError(t, err)
	}

	w := h.do(http.MethodGet, "/api/guilds/"+testGuildID+"/logs?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code)
	var entries []model.LogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "third", entries[0].Message)
	assert.Equal(t, "second", entries[1].Message)

	w = h.do(http.MethodGet, "/api/guilds/"+testGuildID+"/logs?limit=1001", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = h.do(http.MethodDelete, "/api/guilds/"+testGuildID+"/logs", "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = h.do(http.MethodGet, "/api/guilds/"+testGuildID+"/logs", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestLogsReadableWhileOffline(t *testing.T) {
	h := newHarness(t)
	h.bot.status = model.BotStatus{Status: model.BotOffline}

	w := h.do(http.MethodGet, "/api/guilds/"+testGuildID+"/logs", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSystemInfo(t *testing.T) {
	h := newHarness(t)

	w := h.do(http.MethodGet, "/api/system", "")

	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.NotEmpty(t, body["goVersion"])
	assert.Equal(t, "online", body["botStatus"].(map[string]any)["status"])
}
