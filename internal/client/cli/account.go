package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/vignaraja/internal/client/services"
	"github.com/dmitrijs2005/vignaraja/internal/common"
)

// getSimpleText, getPassword and readImage are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	readImage     = ReadImage
)

func (a *App) ask(prompt string) (string, error) {
	return getSimpleText(a.reader, prompt, a.out)
}

func (a *App) askPassword() (string, error) {
	pw, err := getPassword(a.out)
	if err != nil {
		return "", err
	}
	defer common.WipeByteArray(pw)
	return string(pw), nil
}

// askImage reads a photo path and loads it. An empty answer yields "".
func (a *App) askImage(prompt string) (string, error) {
	path, err := a.ask(prompt)
	if err != nil || path == "" {
		return "", err
	}
	return readImage(path)
}

// Register prompts for the full member form and creates the record. The
// new member logs in afterwards.
func (a *App) Register(ctx context.Context) error {
	name, err := a.ask("Enter name")
	if err != nil {
		return err
	}
	password, err := a.askPassword()
	if err != nil {
		return err
	}
	phone, err := a.ask("Enter phone number (10 digits)")
	if err != nil {
		return err
	}
	img, err := a.askImage("Enter photo file")
	if err != nil {
		return err
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.community.Register(ctx, name, password, phone, img); err != nil {
		return err
	}
	a.println("Registration successful! Please log in.")
	return nil
}

// Login runs the combined member form: an existing name is authenticated,
// an unknown one is registered from the phone and photo answers.
func (a *App) Login(ctx context.Context) error {
	name, err := a.ask("Enter name")
	if err != nil {
		return err
	}
	password, err := a.askPassword()
	if err != nil {
		return err
	}
	phone, err := a.ask("Phone number (new members only, Enter to skip)")
	if err != nil {
		return err
	}
	img, err := a.askImage("Photo file (new members only, Enter to skip)")
	if err != nil {
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	outcome, err := a.community.Login(opCtx, services.LoginRequest{Name: name, Password: password, Phone: phone, Image: img})
	if err != nil {
		return err
	}
	if outcome == services.OutcomeRegistered {
		a.println("Registration successful! Please log in.")
		return nil
	}

	actor := a.community.Session.Actor()
	a.printf("Welcome, %s!\n", actor.Name)
	if avatar, err := a.community.Members.Avatar(opCtx, actor.Name); err == nil && avatar != "" {
		a.printf("Photo on file (%s)\n", describeImage(avatar))
	}
	a.printDates()
	a.println(services.Countdown(a.now(), a.config.EventDate))

	return a.startWatches(opCtx)
}

// AdminLogin prompts for the admin credential and opens the admin panel.
func (a *App) AdminLogin(ctx context.Context) error {
	user, err := a.ask("Enter admin user")
	if err != nil {
		return err
	}
	password, err := a.askPassword()
	if err != nil {
		return err
	}

	opCtx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.community.AdminLogin(opCtx, user, password); err != nil {
		return err
	}
	a.println("Admin panel")
	return a.startWatches(opCtx)
}

// startWatches keeps the member list, vault and gallery on screen in sync
// with the store until logout.
func (a *App) startWatches(ctx context.Context) error {
	if err := a.community.WatchMembers(ctx, a.renderMembers); err != nil {
		return fmt.Errorf("watch members: %w", err)
	}
	if err := a.community.WatchVault(ctx, a.renderVault); err != nil {
		return fmt.Errorf("watch vault: %w", err)
	}
	if err := a.community.WatchGallery(ctx, a.renderGallery); err != nil {
		return fmt.Errorf("watch gallery: %w", err)
	}
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.community.Logout()
	a.println("Logged out")
	return nil
}

// DeleteMe removes the signed in member's own record after the name is typed
// again as confirmation.
func (a *App) DeleteMe(ctx context.Context) error {
	actor := a.community.Session.Actor()
	confirm, err := a.ask(fmt.Sprintf("Type %q to delete your account", actor.Name))
	if err != nil {
		return err
	}
	if confirm != actor.Name || actor.Name == "" {
		a.println("Cancelled")
		return nil
	}

	ctx, cancel := a.opCtx(ctx)
	defer cancel()

	if err := a.community.SelfDelete(ctx, actor.Name); err != nil {
		return err
	}
	a.println("Account deleted")
	return nil
}
