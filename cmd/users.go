package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"arcade/config"
	"arcade/database"
	"arcade/events"
	"arcade/repository"
	"arcade/service"

	log "github.com/sirupsen/logrus"
)

const userUsage = "usage: arcade user [create <username>|grant-admin <username>|clear-suspect <id>|delete <id>]"

// RunUserCommand performs one account administration command against the database
func RunUserCommand(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errors.New(userUsage)
	}

	cfg := config.Get()
	cfg.ConfigureLogging()

	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	uowFactory := repository.NewUnitOfWorkFactory(db, events.NewBus())
	users := service.NewUserService(uowFactory)
	moderation := service.NewModerationService(uowFactory)

	command, target := args[0], args[1]
	switch command {
	case "create":
		user, err := users.CreateUser(ctx, target)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"userID": user.ID, "username": user.Username}).Info("Created user")

	case "grant-admin":
		user, err := users.GrantAdmin(ctx, target)
		if err != nil {
			return err
		}
		log.WithFields(log.Fields{"userID": user.ID, "username": user.Username}).Info("Granted administrator rights")

	case "clear-suspect":
		userID, err := parseUserID(target)
		if err != nil {
			return err
		}
		if err := moderation.ClearSuspect(ctx, userID); err != nil {
			return err
		}
		log.WithField("userID", userID).Info("Cleared suspect flag")

	case "delete":
		userID, err := parseUserID(target)
		if err != nil {
			return err
		}
		if err := users.DeleteUser(ctx, userID); err != nil {
			return err
		}
		log.WithField("userID", userID).Info("Deleted user")

	default:
		return fmt.Errorf("unknown user command %q\n%s", command, userUsage)
	}
	return nil
}

func parseUserID(raw string) (int64, error) {
	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || userID <= 0 {
		return 0, fmt.Errorf("invalid user id %q", raw)
	}
	return userID, nil
}
