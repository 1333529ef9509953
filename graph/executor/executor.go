// Package executor turns the GraphQL schema into a gqlgen graphql.ExecutableSchema
// that dispatches fields to the resolver interfaces below.
package executor

import (
	"bytes"
	"context"
	_ "embed"

	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
)

//go:embed schema.graphqls
var sourceSchema string

var parsedSchema = gqlparser.MustLoadSchema(&ast.Source{Name: "schema.graphqls", Input: sourceSchema})

type ResolverRoot interface {
	Comment() CommentResolver
	Link() LinkResolver
	Mutation() MutationResolver
	Query() QueryResolver
	Subscription() SubscriptionResolver
	User() UserResolver
}

type CommentResolver interface {
	Link(ctx context.Context, obj *model.Comment) (*model.Link, error)
}

type LinkResolver interface {
	PostedBy(ctx context.Context, obj *model.Link) (*model.User, error)
	Comments(ctx context.Context, obj *model.Link) ([]*model.Comment, error)
}

type MutationResolver interface {
	PostLink(ctx context.Context, input model.PostLinkInput) (*model.Link, error)
	PostCommentOnLink(ctx context.Context, input model.PostCommentInput) (*model.Comment, error)
	Signup(ctx context.Context, input model.SignupInput) (*model.AuthPayload, error)
	Login(ctx context.Context, input model.LoginInput) (*model.AuthPayload, error)
}

type QueryResolver interface {
	Hello(ctx context.Context) (string, error)
	Feed(ctx context.Context, args model.FeedArgs) ([]*model.Link, error)
	Comment(ctx context.Context, id string) (*model.Comment, error)
	Link(ctx context.Context, id string) (*model.Link, error)
	Me(ctx context.Context) (*model.User, error)
}

type SubscriptionResolver interface {
	NewLink(ctx context.Context) (<-chan *model.Link, error)
}

type UserResolver interface {
	Links(ctx context.Context, obj *model.User) ([]*model.Link, error)
}

type Config struct {
	Resolvers ResolverRoot
}

// NewExecutableSchema creates an ExecutableSchema from the ResolverRoot interface.
func NewExecutableSchema(cfg Config) graphql.ExecutableSchema {
	return &executableSchema{resolvers: cfg.Resolvers}
}

type executableSchema struct {
	resolvers ResolverRoot
}

var _ graphql.ExecutableSchema = (*executableSchema)(nil)

func (e *executableSchema) Schema() *ast.Schema {
	return parsedSchema
}

// Complexity leaves every field at the default cost.
func (e *executableSchema) Complexity(typeName, field string, childComplexity int, rawArgs map[string]any) (int, bool) {
	return 0, false
}

func (e *executableSchema) Exec(ctx context.Context) graphql.ResponseHandler {
	opCtx := graphql.GetOperationContext(ctx)
	ec := &executionContext{OperationContext: opCtx, resolvers: e.resolvers}
	sel := opCtx.Operation.SelectionSet

	switch opCtx.Operation.Operation {
	case ast.Query:
		return once(func(ctx context.Context) graphql.Marshaler {
			return ec._Query(ctx, sel)
		})
	case ast.Mutation:
		return once(func(ctx context.Context) graphql.Marshaler {
			return ec._Mutation(ctx, sel)
		})
	case ast.Subscription:
		next := ec._Subscription(ctx, sel)
		if next == nil {
			return graphql.OneShot(&graphql.Response{Data: []byte("null")})
		}
		return func(ctx context.Context) *graphql.Response {
			data := next(ctx)
			if data == nil {
				return nil
			}
			var buf bytes.Buffer
			data.MarshalGQL(&buf)
			return &graphql.Response{Data: buf.Bytes()}
		}
	default:
		return graphql.OneShot(graphql.ErrorResponse(ctx, "unsupported GraphQL operation"))
	}
}

// once produces a single response, then reports the end of the stream.
func once(exec func(ctx context.Context) graphql.Marshaler) graphql.ResponseHandler {
	done := false
	return func(ctx context.Context) *graphql.Response {
		if done {
			return nil
		}
		done = true

		var buf bytes.Buffer
		exec(ctx).MarshalGQL(&buf)
		return &graphql.Response{Data: buf.Bytes()}
	}
}

type executionContext struct {
	*graphql.OperationContext
	resolvers ResolverRoot
}

// resolve runs fn inside a field context. Errors and panics become field errors and a null value.
func resolve[T any](ctx context.Context, ec *executionContext, fc *graphql.FieldContext, fn func(ctx context.Context) (T, error), marshal func(ctx context.Context, v T) graphql.Marshaler) (ret graphql.Marshaler) {
	ctx = graphql.WithFieldContext(ctx, fc)
	defer func() {
		if r := recover(); r != nil {
			graphql.AddError(ctx, ec.Recover(ctx, r))
			ret = graphql.Null
		}
	}()

	var res T
	if fc.IsResolver && ec.ResolverMiddleware != nil {
		tmp, err := ec.ResolverMiddleware(ctx, func(rctx context.Context) (any, error) {
			ctx = rctx
			v, err := fn(rctx)
			return v, err
		})
		if err != nil {
			graphql.AddError(ctx, err)
			return graphql.Null
		}
		res, _ = tmp.(T)
	} else {
		var err error
		res, err = fn(ctx)
		if err != nil {
			graphql.AddError(ctx, err)
			return graphql.Null
		}
	}

	fc.Result = res
	return marshal(ctx, res)
}

func resolverContext(object string, field graphql.CollectedField, args map[string]any) *graphql.FieldContext {
	return &graphql.FieldContext{
		Object:     object,
		Field:      field,
		Args:       args,
		IsMethod:   true,
		IsResolver: true,
	}
}

func nonNull(field graphql.CollectedField) bool {
	return field.Definition != nil && field.Definition.Type.NonNull
}

// nullViolation reports a nil value for a non-null position unless the field already failed.
func nullViolation(ctx context.Context) graphql.Marshaler {
	if !graphql.HasFieldError(ctx, graphql.GetFieldContext(ctx)) {
		graphql.AddErrorf(ctx, "the requested element is null which the schema does not allow")
	}
	return graphql.Null
}
