// Command seed populates the database with the default categories and,
// optionally, a demo survey with generated responses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/surveyclub/survey-services/api/internal/config"
)

type seedOptions struct {
	demoSurvey    bool
	responseCount int
	randomSeed    int64
}

type defaultCategory struct {
	name           string
	description    string
	nameRequired   bool
	emailRequired  bool
	allowAnonymous bool
}

var defaultCategories = []defaultCategory{
	{name: "Staff", description: "Internal staff feedback", nameRequired: true, emailRequired: true, allowAnonymous: false},
	{name: "Patient", description: "Patient experience surveys", nameRequired: false, emailRequired: false, allowAnonymous: true},
	{name: "Visitor", description: "Visitor feedback", nameRequired: false, emailRequired: false, allowAnonymous: true},
	{name: "General", description: "General purpose surveys", nameRequired: false, emailRequired: true, allowAnonymous: true},
}

func main() {
	opts := parseFlags()
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		log.Fatalf("failed to connect to MongoDB: %v", err)
	}
	defer func() {
		_ = client.Disconnect(context.Background())
	}()

	db := client.Database(cfg.MongoDatabase)
	if err := seedCategories(ctx, db.Collection(cfg.CategoryCollection)); err != nil {
		log.Fatalf("failed to seed categories: %v", err)
	}

	if opts.demoSurvey {
		rng := rand.New(rand.NewSource(opts.randomSeed))
		surveyID, err := seedDemoSurvey(ctx, db.Collection(cfg.SurveyCollection), db.Collection(cfg.CategoryCollection))
		if err != nil {
			log.Fatalf("failed to seed demo survey: %v", err)
		}
		if err := seedDemoResponses(ctx, db.Collection(cfg.ResponseCollection), db.Collection(cfg.SurveyCollection), surveyID, opts.responseCount, rng); err != nil {
			log.Fatalf("failed to seed demo responses: %v", err)
		}
	}

	log.Println("seed completed")
}

func parseFlags() seedOptions {
	opts := seedOptions{}
	flag.BoolVar(&opts.demoSurvey, "demo-survey", false, "also create a demo survey with generated responses")
	flag.IntVar(&opts.responseCount, "responses", 25, "number of demo responses to generate")
	flag.Int64Var(&opts.randomSeed, "seed", time.Now().UnixNano(), "random seed for generated responses")
	flag.Parse()
	return opts
}

// seedCategories upserts the default categories by name, so repeated runs
// never create duplicates.
func seedCategories(ctx context.Context, categories *mongo.Collection) error {
	now := time.Now().UTC()
	for _, c := range defaultCategories {
		filter := bson.M{"name": c.name}
		update := bson.M{
			"$setOnInsert": bson.M{
				"_id":            primitive.NewObjectID(),
				"name":           c.name,
				"description":    c.description,
				"nameRequired":   c.nameRequired,
				"emailRequired":  c.emailRequired,
				"allowAnonymous": c.allowAnonymous,
				"isActive":       true,
				"createdAt":      now,
				"updatedAt":      now,
			},
		}
		if _, err := categories.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true)); err != nil {
			return fmt.Errorf("upsert category %s: %w", c.name, err)
		}
		log.Printf("category ready: %s", c.name)
	}
	return nil
}

// seedDemoSurvey creates one survey exercising every question type, bound to
// the General category.
func seedDemoSurvey(ctx context.Context, surveys, categories *mongo.Collection) (primitive.ObjectID, error) {
	var category struct {
		ID primitive.ObjectID `bson:"_id"`
	}
	if err := categories.FindOne(ctx, bson.M{"name": "General"}).Decode(&category); err != nil {
		return primitive.NilObjectID, fmt.Errorf("load General category: %w", err)
	}

	now := time.Now().UTC()
	surveyID := primitive.NewObjectID()
	doc := bson.M{
		"_id":         surveyID,
		"title":       "Demo Satisfaction Survey",
		"description": "Generated by the seed command",
		"status":      "open",
		"categoryId":  category.ID,
		"questions": bson.A{
			bson.M{
				"_id":          primitive.NewObjectID(),
				"type":         "radio",
				"questionText": "How satisfied are you overall?",
				"options":      bson.A{"Very satisfied", "Satisfied", "Neutral", "Dissatisfied"},
			},
			bson.M{
				"_id":          primitive.NewObjectID(),
				"type":         "checkbox",
				"questionText": "Which services did you use?",
				"options":      bson.A{"Reception", "Consultation", "Pharmacy", "Billing"},
			},
			bson.M{
				"_id":          primitive.NewObjectID(),
				"type":         "rating",
				"questionText": "Rate the waiting time",
			},
			bson.M{
				"_id":          primitive.NewObjectID(),
				"type":         "text",
				"questionText": "Any additional comments?",
			},
		},
		"createdAt": now,
		"updatedAt": now,
	}
	if _, err := surveys.InsertOne(ctx, doc); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert demo survey: %w", err)
	}
	log.Printf("demo survey created: %s", surveyID.Hex())
	return surveyID, nil
}

// seedDemoResponses inserts randomized responses spread over the past two
// weeks so the analytics views have something to show.
func seedDemoResponses(ctx context.Context, responses, surveys *mongo.Collection, surveyID primitive.ObjectID, count int, rng *rand.Rand) error {
	var survey struct {
		Questions []struct {
			ID      primitive.ObjectID `bson:"_id"`
			Type    string             `bson:"type"`
			Options []string           `bson:"options"`
		} `bson:"questions"`
	}
	if err := surveys.FindOne(ctx, bson.M{"_id": surveyID}).Decode(&survey); err != nil {
		return fmt.Errorf("load demo survey: %w", err)
	}

	comments := []string{
		"Everything went smoothly.",
		"The waiting room was crowded.",
		"Staff were very helpful.",
		"Signage could be clearer.",
		"No complaints.",
	}

	docs := make([]interface{}, 0, count)
	now := time.Now().UTC()
	for i := 0; i < count; i++ {
		answers := bson.A{}
		for _, q := range survey.Questions {
			answer := bson.M{"questionId": q.ID, "type": q.Type}
			switch q.Type {
			case "radio":
				answer["answer"] = q.Options[rng.Intn(len(q.Options))]
			case "checkbox":
				picked := bson.A{}
				for _, option := range q.Options {
					if rng.Intn(2) == 0 {
						picked = append(picked, option)
					}
				}
				if len(picked) == 0 {
					picked = append(picked, q.Options[0])
				}
				answer["answer"] = picked
			case "rating":
				answer["answer"] = rng.Intn(5) + 1
			case "text":
				answer["answer"] = comments[rng.Intn(len(comments))]
			}
			answers = append(answers, answer)
		}
		docs = append(docs, bson.M{
			"_id":       primitive.NewObjectID(),
			"surveyId":  surveyID,
			"answers":   answers,
			"createdAt": now.AddDate(0, 0, -rng.Intn(14)),
		})
	}

	if _, err := responses.InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("insert demo responses: %w", err)
	}
	log.Printf("inserted %d demo responses", count)
	return nil
}
