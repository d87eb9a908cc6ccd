package db

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var DB *mongo.Database

func ConnectDatabase(uri, database string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return err
	}

	DB = client.Database(database)
	return nil
}

func Users() *mongo.Collection {
	return DB.Collection("users")
}

func Movies() *mongo.Collection {
	return DB.Collection("movies")
}

func Quotes() *mongo.Collection {
	return DB.Collection("quotes")
}
