package executor

import (
	"context"
	"strconv"

	"github.com/99designs/gqlgen/graphql"
	"github.com/VitaminP8/hackernews/graph/model"
	"github.com/vektah/gqlparser/v2/ast"
)

var (
	linkImplementors        = []string{"Link"}
	commentImplementors     = []string{"Comment"}
	userImplementors        = []string{"User"}
	authPayloadImplementors = []string{"AuthPayload"}
)

func (ec *executionContext) _Link(ctx context.Context, sel ast.SelectionSet, obj *model.Link) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, linkImplementors)

	out := graphql.NewFieldSet(fields)
	invalids := 0
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Link")
		case "id":
			out.Values[i] = graphql.MarshalID(obj.ID)
		case "createdAt":
			out.Values[i] = graphql.MarshalString(obj.CreatedAt)
		case "description":
			out.Values[i] = graphql.MarshalString(obj.Description)
		case "url":
			out.Values[i] = graphql.MarshalString(obj.URL)
		case "postedBy":
			out.Values[i] = resolve(ctx, ec, resolverContext("Link", field, nil),
				func(ctx context.Context) (*model.User, error) {
					return ec.resolvers.Link().PostedBy(ctx, obj)
				},
				func(ctx context.Context, v *model.User) graphql.Marshaler {
					if v == nil {
						return graphql.Null
					}
					return ec._User(ctx, field.Selections, v)
				})
		case "comments":
			out.Values[i] = resolve(ctx, ec, resolverContext("Link", field, nil),
				func(ctx context.Context) ([]*model.Comment, error) {
					return ec.resolvers.Link().Comments(ctx, obj)
				},
				func(ctx context.Context, v []*model.Comment) graphql.Marshaler {
					return ec.marshalCommentList(ctx, field.Selections, v)
				})
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
		if out.Values[i] == graphql.Null && nonNull(field) {
			invalids++
		}
	}
	if invalids > 0 {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) _Comment(ctx context.Context, sel ast.SelectionSet, obj *model.Comment) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, commentImplementors)

	out := graphql.NewFieldSet(fields)
	invalids := 0
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("Comment")
		case "id":
			out.Values[i] = graphql.MarshalID(obj.ID)
		case "createdAt":
			out.Values[i] = graphql.MarshalString(obj.CreatedAt)
		case "body":
			out.Values[i] = graphql.MarshalString(obj.Body)
		case "link":
			out.Values[i] = resolve(ctx, ec, resolverContext("Comment", field, nil),
				func(ctx context.Context) (*model.Link, error) {
					return ec.resolvers.Comment().Link(ctx, obj)
				},
				func(ctx context.Context, v *model.Link) graphql.Marshaler {
					return ec.marshalNLink(ctx, field.Selections, v)
				})
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
		if out.Values[i] == graphql.Null && nonNull(field) {
			invalids++
		}
	}
	if invalids > 0 {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) _User(ctx context.Context, sel ast.SelectionSet, obj *model.User) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, userImplementors)

	out := graphql.NewFieldSet(fields)
	invalids := 0
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("User")
		case "id":
			out.Values[i] = graphql.MarshalID(obj.ID)
		case "name":
			out.Values[i] = graphql.MarshalString(obj.Name)
		case "email":
			out.Values[i] = graphql.MarshalString(obj.Email)
		case "links":
			out.Values[i] = resolve(ctx, ec, resolverContext("User", field, nil),
				func(ctx context.Context) ([]*model.Link, error) {
					return ec.resolvers.User().Links(ctx, obj)
				},
				func(ctx context.Context, v []*model.Link) graphql.Marshaler {
					return ec.marshalLinkList(ctx, field.Selections, v)
				})
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
		if out.Values[i] == graphql.Null && nonNull(field) {
			invalids++
		}
	}
	if invalids > 0 {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) _AuthPayload(ctx context.Context, sel ast.SelectionSet, obj *model.AuthPayload) graphql.Marshaler {
	fields := graphql.CollectFields(ec.OperationContext, sel, authPayloadImplementors)

	out := graphql.NewFieldSet(fields)
	invalids := 0
	for i, field := range fields {
		switch field.Name {
		case "__typename":
			out.Values[i] = graphql.MarshalString("AuthPayload")
		case "token":
			out.Values[i] = graphql.MarshalString(obj.Token)
		case "user":
			fieldCtx := graphql.WithFieldContext(ctx, &graphql.FieldContext{
				Object: "AuthPayload",
				Field:  field,
				Result: obj.User,
			})
			out.Values[i] = ec.marshalNUser(fieldCtx, field.Selections, obj.User)
		default:
			panic("unknown field " + strconv.Quote(field.Name))
		}
		if out.Values[i] == graphql.Null && nonNull(field) {
			invalids++
		}
	}
	if invalids > 0 {
		return graphql.Null
	}
	return out
}

func (ec *executionContext) marshalNLink(ctx context.Context, sel ast.SelectionSet, v *model.Link) graphql.Marshaler {
	if v == nil {
		return nullViolation(ctx)
	}
	return ec._Link(ctx, sel, v)
}

func (ec *executionContext) marshalNComment(ctx context.Context, sel ast.SelectionSet, v *model.Comment) graphql.Marshaler {
	if v == nil {
		return nullViolation(ctx)
	}
	return ec._Comment(ctx, sel, v)
}

func (ec *executionContext) marshalNUser(ctx context.Context, sel ast.SelectionSet, v *model.User) graphql.Marshaler {
	if v == nil {
		return nullViolation(ctx)
	}
	return ec._User(ctx, sel, v)
}

func (ec *executionContext) marshalNAuthPayload(ctx context.Context, sel ast.SelectionSet, v *model.AuthPayload) graphql.Marshaler {
	if v == nil {
		return nullViolation(ctx)
	}
	return ec._AuthPayload(ctx, sel, v)
}

// marshalLinkList marshals [Link!]!. A null element nulls the whole list.
func (ec *executionContext) marshalLinkList(ctx context.Context, sel ast.SelectionSet, v []*model.Link) graphql.Marshaler {
	ret := make(graphql.Array, len(v))
	for i := range v {
		fc := &graphql.FieldContext{Index: &i, Result: v[i]}
		ret[i] = ec.marshalNLink(graphql.WithFieldContext(ctx, fc), sel, v[i])
	}
	for _, e := range ret {
		if e == graphql.Null {
			return graphql.Null
		}
	}
	return ret
}

// marshalCommentList marshals [Comment!]!. A null element nulls the whole list.
func (ec *executionContext) marshalCommentList(ctx context.Context, sel ast.SelectionSet, v []*model.Comment) graphql.Marshaler {
	ret := make(graphql.Array, len(v))
	for i := range v {
		fc := &graphql.FieldContext{Index: &i, Result: v[i]}
		ret[i] = ec.marshalNComment(graphql.WithFieldContext(ctx, fc), sel, v[i])
	}
	for _, e := range ret {
		if e == graphql.Null {
			return graphql.Null
		}
	}
	return ret
}
