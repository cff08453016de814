// Command llmtest exercises the Gemini collaborator end to end against a
// sample inbound message: language detection, intent classification, entity
// extraction and a single-shot reply.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/chatleadhq/chatlead-platform/internal/ai"
	"github.com/chatleadhq/chatlead-platform/internal/entity"
	"github.com/chatleadhq/chatlead-platform/internal/intent"
	"github.com/chatleadhq/chatlead-platform/internal/language"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}
	modelID := os.Getenv("GEMINI_MODEL_ID")
	if modelID == "" {
		modelID = "gemini-2.5-flash"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	client, err := ai.NewGeminiClient(ctx, apiKey, modelID)
	if err != nil {
		log.Fatalf("create gemini client: %v", err)
	}
	defer func() { _ = client.Close() }()

	content := "Saya nak booking facial hari Jumaat pukul 2, nama saya Aisyah, nombor 0123456789"
	if len(os.Args) > 1 {
		content = os.Args[1]
	}

	fmt.Printf("Message: %s\n\n", content)

	det := language.Detect(content)
	fmt.Printf("Language: %s (%.2f)\n", det.Language, det.Confidence)

	cls, err := intent.NewClassifier(client).Classify(ctx, content)
	if err != nil {
		log.Fatalf("classify: %v", err)
	}
	fmt.Printf("Intent: %s (%.2f)\n", cls.Intent, cls.Confidence)

	rec, err := entity.NewExtractor(client).Extract(ctx, content)
	if err != nil {
		log.Fatalf("extract: %v", err)
	}
	fmt.Printf("Entities: %+v\n", rec)

	assistant := ai.NewAssistant(client, nil, nil)
	start := time.Now()
	reply, err := assistant.SingleReply(ctx, "llmtest", det.Language, cls.Intent, content)
	if err != nil {
		log.Fatalf("reply: %v", err)
	}
	fmt.Printf("\nReply (%v):\n%s\n", time.Since(start).Round(time.Millisecond), reply)
}
