// Package email sends the daily topic by email.
//
// Sender abstracts the provider: PostmarkClient delivers through Postmark's
// transactional API, DevSender writes every message into its own directory
// (HTML body, text body, JSON envelope) so local runs never reach a real inbox.
//
//	client, err := email.NewPostmarkClient(email.Config{
//		PostmarkServerToken:  "server-token",
//		PostmarkAccountToken: "account-token",
//		SenderEmail:          "standup@example.com",
//	})
//	if err != nil {
//		return err
//	}
//	err = client.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "team@example.com",
//		Subject:  "Topic for today's standup",
//		BodyHTML: html,
//		BodyText: "Today's topic: ...",
//	})
//
// Message bodies are rendered from templ components with templates.Render.
// All implementations validate parameters before sending; failures wrap
// ErrInvalidParams or ErrFailedToSendEmail.
package email
