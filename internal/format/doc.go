// Package format prints syntax trees back to source text.
//
// Назначение: вывод дерева после desugar-проходов с дословным переносом trivia.
// Не делает: выбора отступов, переносов строк или выравнивания; всё это
// приходит из trivia узлов. Синтезированные узлы без trivia разделяются одним пробелом.
// Зависимости: internal/ast, internal/token.
package format
