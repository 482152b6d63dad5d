// Package notify announces the topic of the day.
//
// Each channel implements Notifier:
//
//   - EmailNotifier renders the topic email and sends it through an email.EmailSender.
//   - TeamsNotifier posts an Office 365 MessageCard to an incoming webhook,
//     illustrated with a generated image when an ImageSource is configured.
//   - LogNotifier writes the topic to the log.
//
// Multi fans a topic out to several channels and reports every failure.
package notify
