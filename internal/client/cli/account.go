package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/dmitrijs2005/civicwatch/internal/client/models"
)

func (a *App) Profile(ctx context.Context, _ []string) error {
	return a.check(ctx, a.account.Profile(ctx))
}

// UpdateProfile prompts for each field; a blank answer keeps the value.
func (a *App) UpdateProfile(ctx context.Context, _ []string) error {
	var u models.ProfileUpdate
	var age string

	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Name (blank keeps current)", &u.Name},
		{"Phone (blank keeps current)", &u.Phone},
		{"Address (blank keeps current)", &u.Address},
		{"Age (blank keeps current)", &age},
		{"Gender (blank keeps current)", &u.Gender},
	} {
		v, err := getSimpleText(a.reader, f.prompt, a.out)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if age != "" {
		n, err := strconv.Atoi(age)
		if err != nil || n <= 0 {
			err = fmt.Errorf("invalid age %q", age)
			a.out.Error(err)
			return err
		}
		u.Age = &n
	}
	return a.check(ctx, a.account.UpdateProfile(ctx, u))
}

func (a *App) My(ctx context.Context, _ []string) error {
	return a.check(ctx, a.account.MyComplaints(ctx))
}

func (a *App) Departments(ctx context.Context, _ []string) error {
	return a.check(ctx, a.account.Departments(ctx))
}

func (a *App) Stats(ctx context.Context, _ []string) error {
	return a.check(ctx, a.account.Stats(ctx))
}

// Submit files a new complaint, optionally with an evidence file.
func (a *App) Submit(ctx context.Context, _ []string) error {
	var nc models.NewComplaint
	var err error

	if nc.Title, err = getSimpleText(a.reader, "Title", a.out); err != nil {
		return err
	}
	if nc.Description, err = GetMultiline(a.reader, "Description", a.out); err != nil {
		return err
	}

	var path string
	for _, f := range []struct {
		prompt string
		dst    *string
	}{
		{"Subcategory", &nc.Subcategory},
		{"Incident address", &nc.Address},
		{"Age of the person affected (optional)", &nc.Age},
		{"Gender of the person affected (optional)", &nc.Gender},
		{"Department", &nc.Department},
		{"Evidence file path (optional)", &path},
	} {
		if *f.dst, err = getSimpleText(a.reader, f.prompt, a.out); err != nil {
			return err
		}
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			a.out.Error(err)
			return err
		}
		defer f.Close()
		nc.File = &models.Attachment{Name: path, Content: f}
	}

	return a.check(ctx, a.account.Submit(ctx, nc))
}
