package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/xiebiao/library/internal/client/store"
	"github.com/xiebiao/library/internal/domain/transaction"
)

func newTransactionsCmd(a *app) *cobra.Command {
	var keyword, status string
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"tx"},
		Short:   "查询借阅记录",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := a.store.LoadTransactions(cmd.Context()); err != nil {
				return err
			}
			txs := store.FilterTransactions(a.store.State(), transaction.ListFilter{
				Keyword: keyword,
				Status:  transaction.Status(status),
			}, time.Now())
			return a.printTransactions(txs)
		},
	}
	cmd.Flags().StringVarP(&keyword, "keyword", "k", "", "按书名、会员姓名搜索")
	cmd.Flags().StringVarP(&status, "status", "s", "", "状态: issued | returned | overdue")
	return cmd
}

func newIssueCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "issue <bookID> <memberID>",
		Short: "借书",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := a.store.IssueBook(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.printTransactions([]*transaction.Transaction{tx})
		},
	}
}

func newReturnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return <transactionID>",
		Short: "还书(逾期按天计算罚款)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tx, err := a.store.ReturnBook(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.printTransactions([]*transaction.Transaction{tx})
		},
	}
}

func newDashboardCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "馆藏、会员和借阅统计",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.store.LoadAll(cmd.Context()); err != nil {
				return err
			}
			d := a.store.Dashboard()
			if a.asJSON {
				return a.render(d, "", nil)
			}
			fmt.Fprintf(a.out, "图书 %d 种, 馆藏 %d 册, 可借 %d 册\n", d.TotalBooks, d.TotalCopies, d.AvailableCopies)
			fmt.Fprintf(a.out, "会员 %d 人, 活跃 %d 人\n", d.TotalMembers, d.ActiveMembers)
			fmt.Fprintf(a.out, "借阅 %d 条, 在借 %d, 逾期 %d\n", d.TotalTransactions, d.IssuedBooks, d.OverdueBooks)
			fmt.Fprintln(a.out, "\n最近借阅:")
			return a.printTransactions(d.RecentTransactions)
		},
	}
}

func (a *app) printTransactions(txs []*transaction.Transaction) error {
	return a.render(txs, "ID\tBOOK\tMEMBER\tISSUED\tDUE\tRETURNED\tSTATUS\tFINE", func(w *tabwriter.Writer) {
		for _, tx := range txs {
			returned, fine := "-", "-"
			if tx.ReturnDate != nil {
				returned = dateOf(*tx.ReturnDate)
			}
			if tx.Fine != nil {
				fine = tx.Fine.StringFixed(2)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
				tx.ID, tx.BookTitle, tx.MemberName, dateOf(tx.IssueDate), dateOf(tx.DueDate), returned, tx.Status, fine)
		}
	})
}
