package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const messagesPerPage = 25

// InboxList renders the contact message inbox, newest first.
func (a *Admin) InboxList(w http.ResponseWriter, r *http.Request) {
	page := pageParam(r)

	messages, err := a.messages.List(messagesPerPage, (page-1)*messagesPerPage)
	if err != nil {
		slog.Error("list messages failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	total, err := a.messages.Count()
	if err != nil {
		slog.Error("count messages failed", "error", err)
	}

	data := map[string]any{
		"Messages": messages,
		"Page":     page,
		"Total":    total,
	}
	if page > 1 {
		data["PrevPage"] = page - 1
	}
	if page*messagesPerPage < total {
		data["NextPage"] = page + 1
	}

	a.page(w, r, "admin/inbox", "Inbox", "inbox", data)
}

// MessageView shows a single message and marks it read.
func (a *Admin) MessageView(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	msg, err := a.messages.FindByID(id)
	if err != nil {
		slog.Error("message lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if msg == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	if !msg.Read {
		if err := a.messages.MarkRead(id); err != nil {
			slog.Error("mark message read failed", "error", err, "id", id)
		}
		msg.Read = true
	}

	a.page(w, r, "admin/message", "Message from "+msg.Name, "inbox", map[string]any{
		"Message": msg,
	})
}

// MessageDelete removes a message from the inbox.
func (a *Admin) MessageDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := a.messages.Delete(id); err != nil {
		slog.Error("delete message failed", "error", err, "id", id)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin/inbox", http.StatusSeeOther)
}
