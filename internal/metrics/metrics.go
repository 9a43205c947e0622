package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	GamesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oddeven_games_created_total",
		Help: "Количество созданных игр",
	})

	Joins = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oddeven_joins_total",
		Help: "Количество успешных входов в игры",
	})

	Guesses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oddeven_guesses_total",
		Help: "Количество принятых чисел",
	})

	Payouts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "oddeven_payouts_total",
		Help: "Количество выплат победителям",
	})

	RejectedOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "oddeven_rejected_operations_total",
		Help: "Отклоненные операции по причинам",
	}, []string{"reason"})

	ActiveGames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "oddeven_active_games",
		Help: "Текущее количество незавершенных игр",
	})
)
