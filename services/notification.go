package services

import (
	"fmt"
	"log"
	"time"

	"breeder-awards-api/config"
	"breeder-awards-api/models"

	"gorm.io/gorm"
)

// MailNotifier records an in-app notification row and sends the member
// a state-change email. Failures are logged and swallowed; a lost mail
// never rolls back a transition.
type MailNotifier struct {
	db       *gorm.DB
	sendMail func(to []string, subject, html string) error
}

func NewMailNotifier(db *gorm.DB) *MailNotifier {
	return &MailNotifier{db: db, sendMail: config.SendMail}
}

type notificationTemplate struct {
	title    string
	body     string
	noteType string
}

var eventTemplates = map[string]notificationTemplate{
	EventSubmitted: {
		title:    "Submission received",
		body:     "Your submission %s has entered the review queue and is awaiting a witness.",
		noteType: "info",
	},
	EventWitnessConfirmed: {
		title:    "Witness confirmed",
		body:     "A witness has confirmed your submission %s.",
		noteType: "success",
	},
	EventWitnessDeclined: {
		title:    "Witness declined",
		body:     "A witness has declined your submission %s. See the notes on the submission for details.",
		noteType: "warning",
	},
	EventChangesRequested: {
		title:    "Changes requested",
		body:     "An administrator has requested changes on your submission %s.",
		noteType: "warning",
	},
	EventResubmitted: {
		title:    "Submission resubmitted",
		body:     "Your updated submission %s is back in the review queue.",
		noteType: "info",
	},
	EventApproved: {
		title:    "Submission approved",
		body:     "Congratulations! Your submission %s has been approved and points were added to your record.",
		noteType: "success",
	},
}

// StateChanged implements Notifier.
func (n *MailNotifier) StateChanged(sub *models.Submission, member *models.User, event string) {
	tpl, ok := eventTemplates[event]
	if !ok {
		return
	}
	message := fmt.Sprintf(tpl.body, sub.Reference)

	subID := uint(sub.SubmissionID)
	row := models.Notification{
		UserID:              uint(member.UserID),
		Title:               tpl.title,
		Message:             message,
		Type:                tpl.noteType,
		RelatedSubmissionID: &subID,
		CreateAt:            time.Now(),
	}
	if err := n.db.Create(&row).Error; err != nil {
		log.Printf("Warning: failed to record notification for submission %d: %v", sub.SubmissionID, err)
	}

	html := fmt.Sprintf("<p>Dear %s,</p><p>%s</p><p>— Breeder Awards Program</p>",
		member.FullName(), message)
	if err := n.sendMail([]string{member.Email}, tpl.title, html); err != nil {
		log.Printf("Warning: failed to send %s mail for submission %d: %v", event, sub.SubmissionID, err)
	}
}
