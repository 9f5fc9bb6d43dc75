package web

import "git.sr.ht/~jakintosh/tempo/internal/widget"

// NotificationView carries one pending completion message to the page
// script, which alerts it once and acknowledges it.
type NotificationView struct {
	ID      string
	Message string
	AckURL  string
}

type NotificationListView struct {
	Items []NotificationView
	OOB   bool
}

func NewNotificationListView(notes []widget.Notification, oob bool) NotificationListView {
	view := NotificationListView{OOB: oob}
	for _, n := range notes {
		view.Items = append(view.Items, NotificationView{
			ID:      n.ID,
			Message: n.Message,
			AckURL:  "/notifications/" + n.ID + "/ack",
		})
	}
	return view
}
