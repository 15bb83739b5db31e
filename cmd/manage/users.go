package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"muru-backend/internal/repository"
)

func init() {
	ShowUserCommand.Flags().String("email", "", "email of the user")
	_ = ShowUserCommand.MarkFlagRequired("email")

	UsersCommand.AddCommand(&ShowUserCommand)
	RootCmd.AddCommand(&UsersCommand)
}

var UsersCommand = cobra.Command{
	Use:   "users",
	Short: "Inspect users",
	Long:  "Inspect users",
}

var ShowUserCommand = cobra.Command{
	Use:   "show",
	Short: "Show a user with roles and content counts",
	Long:  "Show a user with roles and content counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		return withRepos(func(_ *gorm.DB, repos *repository.Repositories) error {
			return showUser(cmd.Context(), repos, email, cmd.OutOrStdout())
		})
	},
}

func showUser(ctx context.Context, repos *repository.Repositories, email string, out io.Writer) error {
	found, err := findUser(ctx, repos.Users, email)
	if err != nil {
		return err
	}
	// FindByID가 역할까지 로드
	user, err := repos.Users.FindByID(ctx, found.ID)
	if err != nil {
		return err
	}

	boards, err := repos.Boards.CountByOwner(ctx, user.ID)
	if err != nil {
		return err
	}
	posts, err := repos.Posts.CountByOwner(ctx, user.ID)
	if err != nil {
		return err
	}
	comments, err := repos.Comments.CountByOwner(ctx, user.ID)
	if err != nil {
		return err
	}

	roles := "-"
	if names := user.RoleNames(); len(names) > 0 {
		roles = strings.Join(names, ",")
	}

	fmt.Fprintf(out, "id:       %d\n", user.ID)
	fmt.Fprintf(out, "email:    %s\n", user.Email)
	fmt.Fprintf(out, "username: %s\n", user.Username)
	fmt.Fprintf(out, "roles:    %s\n", roles)
	fmt.Fprintf(out, "created:  %s\n", user.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "boards:   %d\n", boards)
	fmt.Fprintf(out, "posts:    %d\n", posts)
	fmt.Fprintf(out, "comments: %d\n", comments)
	return nil
}
