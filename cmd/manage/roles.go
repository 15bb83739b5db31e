package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"muru-backend/internal/model"
	"muru-backend/internal/repository"
)

func init() {
	RolesCommand.PersistentFlags().String("email", "", "email of the target user")
	RolesCommand.PersistentFlags().String("role", model.RoleAdmin.String(), "role name (Admin, User)")
	_ = RolesCommand.MarkPersistentFlagRequired("email")

	RolesCommand.AddCommand(&GrantRoleCommand)
	RolesCommand.AddCommand(&RevokeRoleCommand)
	RootCmd.AddCommand(&RolesCommand)
}

var RolesCommand = cobra.Command{
	Use:   "roles",
	Short: "Grant or revoke user roles",
	Long:  "Grant or revoke user roles",
}

var GrantRoleCommand = cobra.Command{
	Use:   "grant",
	Short: "Grant a role to a user",
	Long:  "Grant a role to a user. The role row is created on first use.",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, role := roleFlags(cmd)
		return withRepos(func(_ *gorm.DB, repos *repository.Repositories) error {
			return grantRole(cmd.Context(), repos.Users, email, role, cmd.OutOrStdout())
		})
	},
}

var RevokeRoleCommand = cobra.Command{
	Use:   "revoke",
	Short: "Revoke a role from a user",
	Long:  "Revoke a role from a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		email, role := roleFlags(cmd)
		return withRepos(func(_ *gorm.DB, repos *repository.Repositories) error {
			return revokeRole(cmd.Context(), repos.Users, email, role, cmd.OutOrStdout())
		})
	},
}

func roleFlags(cmd *cobra.Command) (email, role string) {
	email, _ = cmd.Flags().GetString("email")
	role, _ = cmd.Flags().GetString("role")
	return email, role
}

// parseRole 알려진 역할 이름만 허용
func parseRole(name string) (model.RoleName, error) {
	switch model.RoleName(name) {
	case model.RoleAdmin, model.RoleUser:
		return model.RoleName(name), nil
	}
	return "", fmt.Errorf("unknown role %q", name)
}

func findUser(ctx context.Context, users repository.UserRepository, email string) (*model.User, error) {
	user, err := users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("no user with email %q", email)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func grantRole(ctx context.Context, users repository.UserRepository, email, name string, out io.Writer) error {
	role, err := parseRole(name)
	if err != nil {
		return err
	}
	user, err := findUser(ctx, users, email)
	if err != nil {
		return err
	}

	if err := users.AssignRole(ctx, user.ID, role.String()); err != nil {
		return fmt.Errorf("assign role: %w", err)
	}
	fmt.Fprintf(out, "granted %s to %s (id %d)\n", role, user.Email, user.ID)
	return nil
}

func revokeRole(ctx context.Context, users repository.UserRepository, email, name string, out io.Writer) error {
	role, err := parseRole(name)
	if err != nil {
		return err
	}
	user, err := findUser(ctx, users, email)
	if err != nil {
		return err
	}

	err = users.RemoveRole(ctx, user.ID, role.String())
	if errors.Is(err, repository.ErrNotFound) {
		// 역할 행이 아직 없으면 회수할 것도 없음
		fmt.Fprintf(out, "%s does not have %s\n", user.Email, role)
		return nil
	}
	if err != nil {
		return fmt.Errorf("remove role: %w", err)
	}
	fmt.Fprintf(out, "revoked %s from %s (id %d)\n", role, user.Email, user.ID)
	return nil
}
