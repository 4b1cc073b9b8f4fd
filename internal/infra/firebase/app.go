// Package firebase backs accounts with Firebase Auth and profiles and daily
// challenges with Cloud Firestore.
package firebase

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"
)

// Connector holds the Firebase app and the clients derived from it.
type Connector struct {
	app       *firebase.App
	auth      *auth.Client
	firestore *firestore.Client
}

// NewConnector initialises the Firebase app for projectID. An empty
// credentialsFile uses application default credentials (or the emulators).
func NewConnector(ctx context.Context, projectID, credentialsFile string) (*Connector, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{ProjectID: projectID}, opts...)
	if err != nil {
		return nil, fmt.Errorf("error initializing Firebase app: %w", err)
	}
	authClient, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting auth client: %w", err)
	}
	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firestore client: %w", err)
	}
	return &Connector{app: app, auth: authClient, firestore: fs}, nil
}

func (c *Connector) Authenticator() *Authenticator {
	return NewAuthenticator(c.auth)
}

func (c *Connector) Profiles() *ProfileStore {
	return NewProfileStore(c.firestore)
}

func (c *Connector) Challenges() *ChallengeStore {
	return NewChallengeStore(c.firestore)
}

func (c *Connector) Close() error {
	return c.firestore.Close()
}
