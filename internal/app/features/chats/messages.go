// internal/app/features/chats/messages.go
package chats

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/morteam/server/internal/app/system/apperr"
	"github.com/morteam/server/internal/app/system/authutil"
	"github.com/morteam/server/internal/app/system/httpjson"
	"github.com/morteam/server/internal/app/system/notify"
	"github.com/morteam/server/internal/domain/models"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const messagePageSize = 20

// loadChatForMember fetches the chat and verifies the caller belongs to
// its audience. Non-members get a permission error, not a not-found, so
// a member whose access was revoked can tell the difference.
func (h *Handler) loadChatForMember(r *http.Request, user models.User) (models.Chat, error) {
	ctx := r.Context()

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "chatID"))
	if err != nil {
		return models.Chat{}, apperr.Validationf("bad chat id")
	}
	chat, err := h.Store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Chat{}, apperr.NotFoundf("chat %s", id.Hex())
		}
		return models.Chat{}, err
	}

	included, err := h.Resolver.IsUserIncluded(ctx, chat.Audience, user, authutil.ScopeFor(user))
	if err != nil {
		return models.Chat{}, err
	}
	if !included {
		return models.Chat{}, apperr.Permissionf("you are not a member of this chat")
	}
	return chat, nil
}

// Messages returns a window of the chat's messages, newest first.
func (h *Handler) Messages(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	chat, err := h.loadChatForMember(r, user)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	if skip < 0 {
		skip = 0
	}

	msgs, err := h.Store.Messages(ctx, chat.ID, skip, messagePageSize)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	httpjson.Write(w, http.StatusOK, msgs)
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

// SendMessage appends a message to the chat, then fans it out: a socket
// frame to every member for live views, and a push notification as a
// fallback for members who are away.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := authutil.RequestUser(ctx, r, h.Users)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	chat, err := h.loadChatForMember(r, user)
	if err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	var req sendMessageRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}

	content := strings.TrimSpace(h.sanitizer.Sanitize(req.Content))
	if content == "" {
		httpjson.WriteError(w, h.Log, r, apperr.Validationf("message is empty"))
		return
	}

	msg := models.Message{
		Author:    user.ID,
		Content:   content,
		Timestamp: time.Now().UTC(),
	}
	if err := h.Store.AppendMessage(ctx, chat.ID, msg); err != nil {
		httpjson.WriteError(w, h.Log, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, msg)

	data, _ := json.Marshal(struct {
		Author     string `json:"author"`
		AuthorName string `json:"author_name"`
		Content    string `json:"content"`
	}{user.ID.Hex(), user.FullName(), content})
	h.broadcast(ctx, chat, socketEvent{Type: "message", ChatID: chat.ID.Hex(), Data: data})

	h.pushMessage(ctx, chat, user, content)
}

// pushMessage notifies members other than the author.
func (h *Handler) pushMessage(ctx context.Context, chat models.Chat, author models.User, content string) {
	memberIDs, err := h.Resolver.Expand(ctx, chat.Audience, authutil.ScopeFor(author))
	if err != nil {
		return
	}
	recipients := make([]string, 0, len(memberIDs))
	for _, id := range memberIDs {
		if id != author.ID {
			recipients = append(recipients, id.Hex())
		}
	}
	title := author.FullName()
	if chat.Name != "" {
		title = chat.Name
	}
	h.Notify.Enqueue(notify.NewPush(recipients, title, content))
}
