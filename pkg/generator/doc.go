// Package generator produces new standup topics and topic illustrations with
// the OpenAI HTTP API.
//
// Topics come from a chat completion seeded with recent example topics; each
// line of the answer becomes one candidate after list markers are stripped
// and the text is NFC-normalised. Illustrations come from the image
// generation endpoint, are downloaded once and kept in a file.Storage so the
// notification links to a stable URL rather than the short-lived one OpenAI
// returns.
//
//	gen, err := generator.NewOpenAI(generator.OpenAIConfig{
//		APIKey:  cfg.OpenAIKey,
//		Storage: images,
//	})
//	if err != nil {
//		return err
//	}
//	topics, err := gen.GenerateTopics(ctx)
package generator
