package database

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Connect opens a client against the given MongoDB URI and verifies the
// connection with a ping. The caller owns the client and should call
// Disconnect on shutdown.
func Connect(mongoURI string) (*mongo.Client, error) {
	connectionString := options.Client().ApplyURI(mongoURI)
	client, err := mongo.Connect(connectionString)
	if err != nil {
		log.Println(err)
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Println(err)
		return nil, err
	}

	log.Println("Connected to mongoDB")
	return client, nil
}

// EnsureIndexes creates the indexes the handlers rely on. The unique index
// on genre names holds the uniqueness guarantee against concurrent writers;
// the handler pre-checks only exist for the friendlier message.
func EnsureIndexes(client *mongo.Client, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := client.Database(dbName).Collection("genres").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// Disconnect closes the client, logging rather than failing on error.
func Disconnect(client *mongo.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := client.Disconnect(ctx); err != nil {
		log.Println(err)
	}
}
