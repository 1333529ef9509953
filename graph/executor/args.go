package executor

import (
	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/VitaminP8/hackernews/internal/apperror"
)

// Argument decoders. Values come from ast.Field.ArgumentMap, so defaults and
// variables are already applied and the document has been validated.

func feedArgs(raw map[string]any) (model.FeedArgs, error) {
	var (
		args model.FeedArgs
		err  error
	)
	if args.FilterNeedle, err = argOptString(raw, "filterNeedle"); err != nil {
		return args, err
	}
	if args.Skip, err = argOptInt(raw, "skip"); err != nil {
		return args, err
	}
	if args.Take, err = argOptInt(raw, "take"); err != nil {
		return args, err
	}
	return args, nil
}

func postLinkArgs(raw map[string]any) (model.PostLinkInput, error) {
	var (
		input model.PostLinkInput
		err   error
	)
	if input.URL, err = argString(raw, "url"); err != nil {
		return input, err
	}
	if input.Description, err = argString(raw, "description"); err != nil {
		return input, err
	}
	return input, nil
}

func postCommentArgs(raw map[string]any) (model.PostCommentInput, error) {
	var (
		input model.PostCommentInput
		err   error
	)
	if input.LinkID, err = argID(raw, "linkId"); err != nil {
		return input, err
	}
	if input.Body, err = argString(raw, "body"); err != nil {
		return input, err
	}
	return input, nil
}

func signupArgs(raw map[string]any) (model.SignupInput, error) {
	var (
		input model.SignupInput
		err   error
	)
	if input.Email, err = argString(raw, "email"); err != nil {
		return input, err
	}
	if input.Password, err = argString(raw, "password"); err != nil {
		return input, err
	}
	if input.Name, err = argString(raw, "name"); err != nil {
		return input, err
	}
	return input, nil
}

func loginArgs(raw map[string]any) (model.LoginInput, error) {
	var (
		input model.LoginInput
		err   error
	)
	if input.Email, err = argString(raw, "email"); err != nil {
		return input, err
	}
	if input.Password, err = argString(raw, "password"); err != nil {
		return input, err
	}
	return input, nil
}

func argString(raw map[string]any, name string) (string, error) {
	v, ok := raw[name]
	if !ok || v == nil {
		return "", apperror.Validation("argument %s is required", name)
	}
	s, err := graphql.UnmarshalString(v)
	if err != nil {
		return "", apperror.Validation("argument %s: %v", name, err)
	}
	return s, nil
}

func argID(raw map[string]any, name string) (string, error) {
	v, ok := raw[name]
	if !ok || v == nil {
		return "", apperror.Validation("argument %s is required", name)
	}
	id, err := graphql.UnmarshalID(v)
	if err != nil {
		return "", apperror.Validation("argument %s: %v", name, err)
	}
	return id, nil
}

func argOptString(raw map[string]any, name string) (*string, error) {
	v, ok := raw[name]
	if !ok || v == nil {
		return nil, nil
	}
	s, err := graphql.UnmarshalString(v)
	if err != nil {
		return nil, apperror.Validation("argument %s: %v", name, err)
	}
	return &s, nil
}

func argOptInt(raw map[string]any, name string) (*int, error) {
	v, ok := raw[name]
	if !ok || v == nil {
		return nil, nil
	}
	i, err := graphql.UnmarshalInt(v)
	if err != nil {
		return nil, apperror.Validation("argument %s: %v", name, err)
	}
	return &i, nil
}
