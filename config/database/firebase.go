package database

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log"

	"FlashSaleSwiggy/config/environment"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go"
	"google.golang.org/api/option"
)

var FirestoreClient *firestore.Client

// InitFirebase connects to Firestore with the base64 service-account JSON from the config.
func InitFirebase(ctx context.Context, cfg *environment.Config) (*firestore.Client, error) {
	if cfg.FirebaseCredentials == "" {
		return nil, errors.New("FIREBASE_CREDENTIALS_BASE64 environment variable is missing")
	}
	if cfg.FirebaseProjectID == "" {
		return nil, errors.New("FIREBASE_PROJECT_ID environment variable is missing")
	}

	decodedCredentials, err := base64.StdEncoding.DecodeString(cfg.FirebaseCredentials)
	if err != nil {
		return nil, fmt.Errorf("decode firebase credentials: %w", err)
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: cfg.FirebaseProjectID}, option.WithCredentialsJSON(decodedCredentials))
	if err != nil {
		return nil, fmt.Errorf("init firebase app: %w", err)
	}

	client, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	FirestoreClient = client

	log.Println("Firebase Firestore initialized successfully")
	return client, nil
}

// GetFirestoreClient returns the client created by InitFirebase, or nil.
func GetFirestoreClient() *firestore.Client {
	return FirestoreClient
}
