package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/client/store"
	"github.com/xiebiao/library/internal/domain/member"
)

func newMembersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "会员管理",
	}
	cmd.AddCommand(newMembersListCmd(a), newMembersAddCmd(a), newMembersUpdateCmd(a), newMembersDeleteCmd(a))
	return cmd
}

func newMembersListCmd(a *app) *cobra.Command {
	var (
		keyword, membershipType string
		active                  bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "查询会员",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.store.LoadMembers(cmd.Context()); err != nil {
				return err
			}
			st := a.store.State()
			if active {
				st.Members = store.ActiveMembers(st)
			}
			return a.printMembers(store.FilterMembers(st, member.ListFilter{
				Keyword:        keyword,
				MembershipType: member.MembershipType(membershipType),
			}))
		},
	}
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "按姓名、邮箱搜索")
	cmd.Flags().StringVarP(&membershipType, "type", "t", "", "会员类型: standard | premium | student")
	cmd.Flags().BoolVar(&active, "active", false, "只显示可借书的会员")
	return cmd
}

func newMembersAddCmd(a *app) *cobra.Command {
	var (
		form           member.FormData
		membershipType string
	)
	cmd := &cobra.Command{
		Use:   "add",
		Short: "新增会员",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form.MembershipType = member.MembershipType(membershipType)
			m, err := a.store.AddMember(cmd.Context(), form)
			if err != nil {
				return err
			}
			return a.printMembers([]*member.Member{m})
		},
	}
	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "姓名")
	f.StringVar(&form.Email, "email", "", "邮箱")
	f.StringVar(&form.Phone, "phone", "", "电话")
	f.StringVar(&form.Address, "address", "", "地址")
	f.StringVar(&membershipType, "type", string(member.MembershipStandard), "会员类型: standard | premium | student")
	return cmd
}

func newMembersUpdateCmd(a *app) *cobra.Command {
	var (
		name, email, phone, address, membershipType string
		active                                      bool
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "修改会员(--active=false停用)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			patch := member.Patch{
				Name:    stringFlag(f.Changed("name"), name),
				Email:   stringFlag(f.Changed("email"), email),
				Phone:   stringFlag(f.Changed("phone"), phone),
				Address: stringFlag(f.Changed("address"), address),
			}
			if f.Changed("type") {
				t := member.MembershipType(membershipType)
				patch.MembershipType = &t
			}
			if f.Changed("active") {
				patch.IsActive = &active
			}
			m, err := a.store.UpdateMember(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			return a.printMembers([]*member.Member{m})
		},
	}
	f := cmd.Flags()
	f.StringVar(&name, "name", "", "姓名")
	f.StringVar(&email, "email", "", "邮箱")
	f.StringVar(&phone, "phone", "", "电话")
	f.StringVar(&address, "address", "", "地址")
	f.StringVar(&membershipType, "type", "", "会员类型")
	f.BoolVar(&active, "active", true, "是否激活")
	return cmd
}

func newMembersDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "删除会员(有未归还借阅时拒绝)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.store.DeleteMember(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "已删除会员 %s\n", args[0])
			return nil
		},
	}
}

func (a *app) printMembers(members []*member.Member) error {
	return a.render(members, "ID\tNAME\tEMAIL\tTYPE\tACTIVE\tSINCE", func(w *tabwriter.Writer) {
		for _, m := range members {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%t\t%s\n",
				m.ID, m.Name, m.Email, m.MembershipType, m.IsActive, m.MembershipDate)
		}
	})
}
